package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/agbru/fourcalc/internal/ui"
	"github.com/agbru/fourcalc/pkg/models"
)

const (
	// narrowColumn is the width of the T, k and wk columns.
	narrowColumn = 10
	// wideColumn is the width of the Re(F(w_k)) and |F(w_k)| columns.
	wideColumn = 20
	// tableWidth is the width of the group separators.
	tableWidth = 3*narrowColumn + 2*wideColumn
	// fixedNotationLimit is the magnitude above which values switch to
	// scientific notation to stay within wideColumn.
	fixedNotationLimit = 1e12
)

// FormatValue renders a coefficient component with five decimals, or in
// scientific notation when the fixed form would not fit a table column.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	if math.Abs(v) >= fixedNotationLimit {
		return fmt.Sprintf("%.6e", v)
	}
	return fmt.Sprintf("%.5f", v)
}

// FormatPeriod renders a period without trailing zeros ("4", "12.5").
func FormatPeriod(period float64) string {
	return fmt.Sprintf("%g", period)
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s + " "
}

// DisplayTable prints the coefficient table
//
//	T  k  wk  Re(F(w_k))  |F(w_k)|
//
// with one group of rows per period and a separator line after each group.
// Samples are printed in the order given; a new group starts whenever the
// period changes.
//
// Parameters:
//   - samples: The evaluated points, ordered by period then harmonic.
//   - out: The destination writer.
func DisplayTable(samples []models.Sample, out io.Writer) {
	fmt.Fprintf(out, "%s%s%s%s%s%s%s\n",
		ui.ColorBold(),
		pad("T", narrowColumn), pad("k", narrowColumn), pad("wk", narrowColumn),
		pad("Re(F(w_k))", wideColumn), pad("|F(w_k)|", wideColumn),
		ui.ColorReset())
	separator := strings.Repeat("-", tableWidth)
	fmt.Fprintln(out, separator)

	for i, s := range samples {
		fmt.Fprintf(out, "%s%s%s%s%s%s%s",
			ui.ColorBlue(), pad(FormatPeriod(s.Period), narrowColumn), ui.ColorReset(),
			pad(fmt.Sprintf("%d", s.K), narrowColumn),
			ui.ColorCyan(), pad(fmt.Sprintf("%.5f", s.Wk), narrowColumn), ui.ColorReset())
		if s.Failed() {
			fmt.Fprintf(out, "%s%s%s\n", ui.ColorRed(), "integration failed: "+s.Error, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%s%s%s%s\n",
				ui.ColorSigned(s.Real), pad(FormatValue(s.Real), wideColumn), ui.ColorReset(),
				pad(FormatValue(s.Amplitude), wideColumn))
		}
		if i == len(samples)-1 || samples[i+1].Period != s.Period {
			fmt.Fprintln(out, separator)
		}
	}
}

// DisplaySummaries prints one line per period with the dominant harmonic
// and the mean amplitude.
func DisplaySummaries(summaries []models.PeriodSummary, out io.Writer) {
	if len(summaries) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s--- Spectrum summary ---%s\n", ui.ColorBold(), ui.ColorReset())
	for _, s := range summaries {
		fmt.Fprintf(out, "T = %s%-8s%s peak at k = %s%-3d%s |F| = %s   mean |F| = %s",
			ui.ColorBlue(), FormatPeriod(s.Period), ui.ColorReset(),
			ui.ColorMagenta(), s.PeakK, ui.ColorReset(),
			FormatValue(s.PeakAmplitude), FormatValue(s.MeanAmplitude))
		if s.Failures > 0 {
			fmt.Fprintf(out, "   %s%d failed%s", ui.ColorRed(), s.Failures, ui.ColorReset())
		}
		fmt.Fprintln(out)
	}
}
