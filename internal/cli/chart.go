package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/ui"
	"github.com/agbru/fourcalc/pkg/models"
)

const (
	// ChartWidth is the number of cells used by a one-sided stem.
	ChartWidth = 48
	// PreviewWidth is the number of samples of the function preview.
	PreviewWidth = 60
	// PreviewEnd is the right end of the preview window [0, PreviewEnd].
	PreviewEnd = 10.0
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// ChartSeries selects the quantity plotted by a stem chart.
type ChartSeries struct {
	Label string
	Value func(models.Sample) float64
}

// RealSeries plots Re(F(w_k)).
var RealSeries = ChartSeries{Label: "Re(F(w_k))", Value: func(s models.Sample) float64 { return s.Real }}

// AmplitudeSeries plots |F(w_k)|.
var AmplitudeSeries = ChartSeries{Label: "|F(w_k)|", Value: func(s models.Sample) float64 { return s.Amplitude }}

// RenderStemChart draws a horizontal stem plot of series against k, one row
// per sample. Signed series get a centered axis so negative stems grow to
// the left. Failed samples are marked and excluded from the scale.
//
// Parameters:
//   - title: The chart title.
//   - samples: The samples of a single period.
//   - series: The plotted quantity.
//   - out: The destination writer.
func RenderStemChart(title string, samples []models.Sample, series ChartSeries, out io.Writer) {
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold(), title, ui.ColorReset())

	maxAbs := 0.0
	signed := false
	for _, s := range samples {
		if s.Failed() {
			continue
		}
		v := series.Value(s)
		maxAbs = math.Max(maxAbs, math.Abs(v))
		if v < 0 {
			signed = true
		}
	}

	half := ChartWidth
	if signed {
		half = ChartWidth / 2
	}
	for _, s := range samples {
		fmt.Fprintf(out, "k=%-3d ", s.K)
		if s.Failed() {
			fmt.Fprintf(out, "%s✗ failed%s\n", ui.ColorRed(), ui.ColorReset())
			continue
		}
		v := series.Value(s)
		cells := 0
		if maxAbs > 0 {
			cells = int(math.Round(math.Abs(v) / maxAbs * float64(half)))
		}
		stem := strings.Repeat("─", max(cells-1, 0))
		if cells > 0 {
			stem += "●"
		}

		switch {
		case signed && v < 0:
			fmt.Fprintf(out, "%s%s%s%s│%s",
				strings.Repeat(" ", half-cells), ui.ColorSigned(v), reverseStem(stem), ui.ColorReset(), strings.Repeat(" ", half))
		case signed:
			fmt.Fprintf(out, "%s│%s%s%s%s",
				strings.Repeat(" ", half), ui.ColorSigned(v), stem, ui.ColorReset(), strings.Repeat(" ", half-cells))
		default:
			fmt.Fprintf(out, "│%s%s%s%s", ui.ColorSigned(v), stem, ui.ColorReset(), strings.Repeat(" ", half-cells))
		}
		fmt.Fprintf(out, " %s\n", FormatValue(v))
	}
}

func reverseStem(stem string) string {
	r := []rune(stem)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// DisplayCharts renders, for every period in samples, a stem chart of the
// real part followed by a stem chart of the amplitude.
func DisplayCharts(samples []models.Sample, out io.Writer) {
	for _, group := range GroupByPeriod(samples) {
		period := FormatPeriod(group[0].Period)
		RenderStemChart(fmt.Sprintf("%s, T = %s", RealSeries.Label, period), group, RealSeries, out)
		RenderStemChart(fmt.Sprintf("%s, T = %s", AmplitudeSeries.Label, period), group, AmplitudeSeries, out)
	}
}

// GroupByPeriod splits samples into runs of equal period, preserving order.
func GroupByPeriod(samples []models.Sample) [][]models.Sample {
	var groups [][]models.Sample
	for i, s := range samples {
		if i == 0 || samples[i-1].Period != s.Period {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], s)
	}
	return groups
}

// Sparkline maps values onto eight block levels between their minimum and
// maximum.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(sparkLevels)-1))
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}

// RenderFunctionPreview draws f(t) on [0, PreviewEnd] as a sparkline, with
// the value range it spans.
func RenderFunctionPreview(target fourier.Target, out io.Writer) {
	values := make([]float64, PreviewWidth)
	for i := range values {
		t := PreviewEnd * float64(i) / float64(PreviewWidth-1)
		values[i] = target.Eval(t)
	}
	fmt.Fprintf(out, "%sf(t) = t^%d for t in [0, %g]%s\n", ui.ColorBold(), target.Degree(), PreviewEnd, ui.ColorReset())
	fmt.Fprintf(out, "%s%s%s  %s .. %s\n",
		ui.ColorBlue(), Sparkline(values), ui.ColorReset(),
		FormatValue(values[0]), FormatValue(values[len(values)-1]))
}
