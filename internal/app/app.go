package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/agbru/fourcalc/internal/cli"
	"github.com/agbru/fourcalc/internal/config"
	apperrors "github.com/agbru/fourcalc/internal/errors"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/logging"
	"github.com/agbru/fourcalc/internal/orchestration"
	"github.com/agbru/fourcalc/internal/server"
	"github.com/agbru/fourcalc/internal/ui"
)

// Application represents the fourcalc application instance.
// It encapsulates the configuration and provides methods to run
// the application in various modes (sweep, server, REPL).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides the quadrature rules.
	// Uses the interface type for better testability and dependency injection.
	Factory fourier.EvaluatorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
	// In is the REPL input; os.Stdin when nil.
	In io.Reader
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := fourier.GlobalFactory()

	programName := "fourcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, REPL, or sweep).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	logging.Setup(a.Config.LogLevel, a.ErrWriter)
	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer()
	}
	if a.Config.Interactive {
		return a.runREPL(out)
	}
	return a.runSweep(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(logging.NewLogger(a.ErrWriter, "server")))
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Factory.GetAll(a.Config.Target(), a.Config.ToEvaluationOptions()), cli.REPLConfig{
		DefaultAlgo:      a.Config.Algo,
		Timeout:          a.Config.Timeout,
		CompareTolerance: a.Config.CompareTolerance,
	})
	in := a.In
	if in == nil {
		in = os.Stdin
	}
	repl.SetInput(in)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runSweep evaluates the coefficient grid with the selected rules and
// reports the outcome.
func (a *Application) runSweep(ctx context.Context, out io.Writer) int {
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	evaluators := cli.GetEvaluatorsToRun(a.Config, a.Factory)
	if len(evaluators) == 0 {
		fmt.Fprintf(a.ErrWriter, "No quadrature rule matches '%s'.\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	verbose := !a.Config.JSONOutput && !a.Config.Quiet
	if verbose {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(evaluators, out)
		cli.RenderFunctionPreview(a.Config.Target(), out)
	}

	progressOut := out
	if !verbose {
		progressOut = io.Discard
	}

	results := orchestration.ExecuteSweeps(ctx, evaluators, a.Config, progressOut)

	switch {
	case a.Config.JSONOutput:
		return a.printJSONResults(results, out)
	case a.Config.Quiet:
		return a.printQuietResults(results, out)
	default:
		return orchestration.AnalyzeComparisonResults(results, a.Config, out)
	}
}

// printJSONResults writes the full comparison report as JSON. The CSV
// export, if requested, still receives the merged table.
func (a *Application) printJSONResults(results []orchestration.SweepResult, out io.Writer) int {
	analysis := orchestration.Analyze(results, a.Config)
	if err := cli.WriteJSON(out, orchestration.BuildReport(results, analysis)); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error encoding JSON: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if err := a.saveResultIfNeeded(analysis); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return analysis.ExitCode
}

// printQuietResults writes one line per grid point and nothing else on out.
// Failures are reported on ErrWriter.
func (a *Application) printQuietResults(results []orchestration.SweepResult, out io.Writer) int {
	analysis := orchestration.Analyze(results, a.Config)
	if analysis.Status == orchestration.StatusFailure && analysis.Err != nil {
		return apperrors.HandleSweepError(analysis.Err, 0, a.ErrWriter, nil)
	}
	if analysis.Mismatch != nil {
		fmt.Fprintf(a.ErrWriter, "Inconsistency between %s and %s at T = %s, k = %d.\n",
			analysis.Mismatch.Reference, analysis.Mismatch.Other,
			cli.FormatPeriod(analysis.Mismatch.Point.Period), analysis.Mismatch.Point.K)
		return analysis.ExitCode
	}

	cfg := cli.OutputConfig{OutputFile: a.Config.OutputFile, Quiet: true}
	if err := cli.DisplayResultWithConfig(out, analysis.Report(), cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return analysis.ExitCode
}

func (a *Application) saveResultIfNeeded(analysis orchestration.Analysis) error {
	if a.Config.OutputFile == "" || len(analysis.Merged) == 0 {
		return nil
	}
	if err := cli.WriteResultToFile(a.Config.OutputFile, analysis.Report()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		return err
	}
	return nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
