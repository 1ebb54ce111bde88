// Package cli provides output utilities for exporting sweep results.
package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/fourcalc/internal/ui"
	"github.com/agbru/fourcalc/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path of the CSV export (empty for no file output).
	OutputFile string
	// Quiet prints one whitespace-separated line per sample.
	Quiet bool
	// JSON prints the machine-readable comparison report.
	JSON bool
	// Plot renders the stem charts after the table.
	Plot bool
}

// csvHeader is the column row of the CSV export.
var csvHeader = []string{"T", "k", "wk", "real", "imag", "amplitude", "error"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the samples of report as CSV, preceded by commented
// metadata lines.
//
// Parameters:
//   - w: The destination writer.
//   - report: The sweep to export.
//
// Returns:
//   - error: An error if writing fails.
func WriteCSV(w io.Writer, report models.SweepReport) error {
	fmt.Fprintf(w, "# Fourier Coefficient Sweep\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Algorithm: %s\n", report.Algorithm)
	fmt.Fprintf(w, "# f(t) = t^%d on [-%g, %g]\n", 2*report.Exponent, report.Bound, report.Bound)
	fmt.Fprintf(w, "# Duration: %s\n", time.Duration(report.DurationMs*float64(time.Millisecond)))
	fmt.Fprintf(w, "# Failures: %d\n", report.Failures)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range report.Samples {
		record := []string{
			formatFloat(s.Period), strconv.Itoa(s.K), formatFloat(s.Wk),
			formatFloat(s.Real), formatFloat(s.Imag), formatFloat(s.Amplitude), s.Error,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultToFile exports report as CSV to path, creating parent
// directories as needed.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(path string, report models.SweepReport) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteCSV(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

// FormatQuietSample formats a sample as "T k wk real amplitude", suitable
// for scripting. Failed samples carry "NaN" values.
func FormatQuietSample(s models.Sample) string {
	if s.Failed() {
		return fmt.Sprintf("%s %d %s NaN NaN", formatFloat(s.Period), s.K, formatFloat(s.Wk))
	}
	return fmt.Sprintf("%s %d %s %s %s",
		formatFloat(s.Period), s.K, formatFloat(s.Wk), formatFloat(s.Real), formatFloat(s.Amplitude))
}

// DisplayQuietResults prints one line per sample.
func DisplayQuietResults(out io.Writer, samples []models.Sample) {
	for _, s := range samples {
		fmt.Fprintln(out, FormatQuietSample(s))
	}
}

// WriteJSON encodes report as indented JSON.
func WriteJSON(out io.Writer, report models.ComparisonReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// DisplayResultWithConfig presents a sweep according to config: quiet
// lines, or the table followed by optional charts, then the optional CSV
// export.
//
// Parameters:
//   - out: The output writer.
//   - report: The sweep to present.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, report models.SweepReport, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResults(out, report.Samples)
	} else {
		fmt.Fprintf(out, "\n%s--- Coefficients (%s) ---%s\n", ui.ColorBold(), report.Algorithm, ui.ColorReset())
		DisplayTable(report.Samples, out)
		if config.Plot {
			DisplayCharts(report.Samples, out)
		}
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(config.OutputFile, report); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
