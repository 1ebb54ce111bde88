package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/agbru/fourcalc/internal/cli"
	"github.com/agbru/fourcalc/internal/config"
	apperrors "github.com/agbru/fourcalc/internal/errors"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/ui"
	"github.com/agbru/fourcalc/pkg/models"
)

// Global statuses of a comparison.
const (
	StatusSuccess  = "success"
	StatusPartial  = "partial"
	StatusMismatch = "mismatch"
	StatusFailure  = "failure"
)

// Mismatch describes the first disagreement between two sweeps.
type Mismatch struct {
	Reference, Other string
	Point            Point
	Want, Got        float64 // real parts
	WantIm, GotIm    float64 // imaginary parts
}

// Analysis is the verdict over the sweeps of one run.
type Analysis struct {
	Status   string
	ExitCode int
	// Reference is the sweep the others are checked against: the fastest
	// sweep with the fewest failures.
	Reference *SweepResult
	// Merged holds, per grid point, the first successful result across the
	// sorted sweeps, or the reference failure when every sweep failed there.
	Merged []PointResult
	// Mismatch is set when two sweeps disagree beyond the tolerance.
	Mismatch *Mismatch
	// Err is the failure that decided a "failure" status.
	Err error
}

// sortResults orders sweeps by number of failures, then by duration.
func sortResults(results []SweepResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Failures != results[j].Failures {
			return results[i].Failures < results[j].Failures
		}
		return results[i].Duration < results[j].Duration
	})
}

// Analyze sorts results in place and decides the outcome of the run.
//
// A sweep interrupted by the deadline or a cancellation fails the run with
// the matching exit code. Otherwise every pair of points integrated by two
// rules is cross-checked with fourier.Agree at cfg.CompareTolerance; a
// disagreement yields ExitErrorMismatch. Points that no rule could integrate
// make the run partial (ExitErrorPartial), or a failure when no point at all
// succeeded.
//
// Parameters:
//   - results: The sweeps to analyze (sorted in place).
//   - cfg: The application configuration.
//
// Returns:
//   - Analysis: The verdict.
func Analyze(results []SweepResult, cfg config.AppConfig) Analysis {
	if len(results) == 0 {
		return Analysis{Status: StatusFailure, ExitCode: apperrors.ExitErrorGeneric, Err: fmt.Errorf("no sweep was executed")}
	}
	sortResults(results)
	ref := &results[0]
	analysis := Analysis{Reference: ref}

	for _, r := range results {
		if err := r.interruption(); err != nil {
			analysis.Status = StatusFailure
			analysis.ExitCode = apperrors.ExitErrorTimeout
			if errors.Is(err, context.Canceled) {
				analysis.ExitCode = apperrors.ExitErrorCanceled
			}
			analysis.Err = err
			return analysis
		}
	}

	analysis.Merged = make([]PointResult, len(ref.Points))
	succeeded, failed := 0, 0
	for i := range ref.Points {
		analysis.Merged[i] = ref.Points[i]
		for _, r := range results {
			if i < len(r.Points) && r.Points[i].Err == nil {
				analysis.Merged[i] = r.Points[i]
				break
			}
		}
		if analysis.Merged[i].Err != nil {
			failed++
		} else {
			succeeded++
		}
	}

	if succeeded == 0 {
		analysis.Status = StatusFailure
		analysis.ExitCode = apperrors.ExitErrorGeneric
		analysis.Err = ref.Err
		return analysis
	}

	if m := findMismatch(results, analysis.Merged, cfg.CompareTolerance, ref.Target); m != nil {
		analysis.Status = StatusMismatch
		analysis.ExitCode = apperrors.ExitErrorMismatch
		analysis.Mismatch = m
		return analysis
	}

	if failed > 0 {
		analysis.Status = StatusPartial
		analysis.ExitCode = apperrors.ExitErrorPartial
		return analysis
	}
	analysis.Status = StatusSuccess
	analysis.ExitCode = apperrors.ExitSuccess
	return analysis
}

// interruption returns the failure that cut the sweep short, if any.
func (r SweepResult) interruption() error {
	if r.Interrupted != nil {
		return r.Interrupted
	}
	if apperrors.IsContextError(r.Err) {
		return r.Err
	}
	return nil
}

// findMismatch compares every successful point of every sweep with the
// merged reference value.
func findMismatch(results []SweepResult, merged []PointResult, tol float64, target fourier.Target) *Mismatch {
	for i, want := range merged {
		if want.Err != nil {
			continue
		}
		for _, r := range results {
			if i >= len(r.Points) || r.Points[i].Err != nil {
				continue
			}
			got := r.Points[i].Coefficient
			if !fourier.Agree(got, want.Coefficient, tol, target) {
				return &Mismatch{
					Reference: nameAt(results, want), Other: r.Name, Point: want.Point,
					Want: want.Coefficient.Real, Got: got.Real,
					WantIm: want.Coefficient.Imag, GotIm: got.Imag,
				}
			}
		}
	}
	return nil
}

// nameAt returns the name of the sweep that produced p.
func nameAt(results []SweepResult, p PointResult) string {
	for _, r := range results {
		for _, q := range r.Points {
			if q.Point == p.Point && q.Err == nil && q.Coefficient == p.Coefficient {
				return r.Name
			}
		}
	}
	return ""
}

// Summarize condenses points per period, in order of first appearance:
// the harmonic with the largest amplitude, the mean amplitude and the
// number of failures. Failed points are left out of the statistics.
func Summarize(points []PointResult) []models.PeriodSummary {
	var order []float64
	groups := make(map[float64][]PointResult)
	for _, p := range points {
		if _, seen := groups[p.Period]; !seen {
			order = append(order, p.Period)
		}
		groups[p.Period] = append(groups[p.Period], p)
	}

	summaries := make([]models.PeriodSummary, 0, len(order))
	for _, period := range order {
		summary := models.PeriodSummary{Period: period, PeakK: -1}
		var amplitudes []float64
		var ks []int
		for _, p := range groups[period] {
			if p.Err != nil {
				summary.Failures++
				continue
			}
			amplitudes = append(amplitudes, p.Amplitude())
			ks = append(ks, p.K)
		}
		if len(amplitudes) > 0 {
			peak := floats.MaxIdx(amplitudes)
			summary.PeakK = ks[peak]
			summary.PeakAmplitude = amplitudes[peak]
			summary.MeanAmplitude = stat.Mean(amplitudes, nil)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Report returns the merged coefficient table, labeled with the reference
// sweep. It is empty when no sweep ran.
func (a Analysis) Report() models.SweepReport {
	if a.Reference == nil {
		return models.SweepReport{}
	}
	report := a.Reference.Report()
	report.Samples = make([]models.Sample, len(a.Merged))
	report.Failures = 0
	report.Error = ""
	for i, p := range a.Merged {
		report.Samples[i] = p.Sample()
		if p.Err != nil {
			report.Failures++
			if report.Error == "" {
				report.Error = p.Err.Error()
			}
		}
	}
	return report
}

// BuildReport assembles the machine-readable report of a run.
func BuildReport(results []SweepResult, analysis Analysis) models.ComparisonReport {
	report := models.ComparisonReport{
		Status:   analysis.Status,
		ExitCode: analysis.ExitCode,
		Sweeps:   make([]models.SweepReport, len(results)),
	}
	for i, r := range results {
		report.Sweeps[i] = r.Report()
	}
	if len(analysis.Merged) > 0 {
		report.Summaries = Summarize(analysis.Merged)
	}
	return report
}

func statusCell(r SweepResult) string {
	switch {
	case r.Succeeded():
		return fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
	case r.Failures < len(r.Points):
		return fmt.Sprintf("%s⚠️  Partial (%d/%d failed: %v)%s", ui.ColorYellow(), r.Failures, len(r.Points), r.Err, ui.ColorReset())
	default:
		return fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), r.Err, ui.ColorReset())
	}
}

// AnalyzeComparisonResults processes the results of the sweeps and prints
// the report.
//
// It sorts the sweeps, prints a summary table, cross-checks the rules and,
// unless the run failed, prints the coefficient table (plus the optional
// charts, spectrum summary and CSV export).
//
// Parameters:
//   - results: The sweep results to analyze.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []SweepResult, cfg config.AppConfig, out io.Writer) int {
	analysis := Analyze(results, cfg)

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sPoints%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	for _, res := range results {
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%d\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), cli.FormatExecutionDuration(res.Duration), ui.ColorReset(),
			len(res.Points), statusCell(res))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	var elapsed time.Duration
	for _, r := range results {
		elapsed = max(elapsed, r.Duration)
	}

	switch analysis.Status {
	case StatusFailure:
		fmt.Fprintf(out, "\nGlobal Status: Failure. No quadrature rule could complete the sweep.\n")
		if analysis.Err == nil {
			return analysis.ExitCode
		}
		return apperrors.HandleSweepError(analysis.Err, elapsed, out, cli.CLIColorProvider{})
	case StatusMismatch:
		m := analysis.Mismatch
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the quadrature rules.\n")
		fmt.Fprintf(out, "At T = %s, k = %d: %s gives %s%+.10g%+.10gi%s, %s gives %s%+.10g%+.10gi%s.\n",
			cli.FormatPeriod(m.Point.Period), m.Point.K,
			m.Reference, ui.ColorCyan(), m.Want, m.WantIm, ui.ColorReset(),
			m.Other, ui.ColorRed(), m.Got, m.GotIm, ui.ColorReset())
		return analysis.ExitCode
	case StatusPartial:
		fmt.Fprintf(out, "\nGlobal Status: Partial. Some points could not be integrated by any rule.\n")
	default:
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}

	outputCfg := cli.OutputConfig{OutputFile: cfg.OutputFile, Plot: cfg.Plot}
	if err := cli.DisplayResultWithConfig(out, analysis.Report(), outputCfg); err != nil {
		fmt.Fprintf(out, "%sError saving results: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	if cfg.Details {
		cli.DisplaySummaries(Summarize(analysis.Merged), out)
	}
	return analysis.ExitCode
}
