package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/fourcalc/internal/config"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/ui"
)

// GetEvaluatorsToRun determines which evaluators should be executed based on
// the configuration. With "all", every registered rule is returned in the
// factory's sorted order for reproducible output. Every evaluator shares the
// configured target and options.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The registry of quadrature rules.
//
// Returns:
//   - []fourier.Evaluator: The evaluators to execute (nil if none matches).
func GetEvaluatorsToRun(cfg config.AppConfig, factory fourier.EvaluatorFactory) []fourier.Evaluator {
	target := cfg.Target()
	opts := cfg.ToEvaluationOptions()

	names := []string{cfg.Algo}
	if cfg.Algo == "all" {
		names = factory.List()
	}
	evaluators := make([]fourier.Evaluator, 0, len(names))
	for _, name := range names {
		if ev, err := factory.Create(name, target, opts); err == nil {
			evaluators = append(evaluators, ev)
		}
	}
	if len(evaluators) == 0 {
		return nil
	}
	return evaluators
}

// PrintExecutionConfig displays the current execution configuration: the
// target function, the sweep grid, the timeout and the environment.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	target := cfg.Target()
	periods := make([]string, len(cfg.Periods))
	for i, p := range cfg.Periods {
		periods[i] = FormatPeriod(p)
	}

	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Integrating %s%s%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), target, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Sweep: T in {%s%s%s}, k = %s%d..%d%s (%d points per rule).\n",
		ui.ColorCyan(), strings.Join(periods, ", "), ui.ColorReset(),
		ui.ColorCyan(), cfg.KMin, cfg.KMax, ui.ColorReset(),
		len(cfg.Periods)*(cfg.KMax-cfg.KMin+1))
	fmt.Fprintf(out, "Tolerance: rel %s%g%s, %s%d%s workers per sweep.\n",
		ui.ColorCyan(), cfg.RelTolerance, ui.ColorReset(), ui.ColorCyan(), cfg.Workers, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// PrintExecutionMode displays the execution mode (single rule vs comparison).
func PrintExecutionMode(evaluators []fourier.Evaluator, out io.Writer) {
	var modeDesc string
	if len(evaluators) > 1 {
		modeDesc = "Parallel comparison of all quadrature rules"
	} else {
		modeDesc = fmt.Sprintf("Single sweep with the %s%s%s rule",
			ui.ColorGreen(), evaluators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
