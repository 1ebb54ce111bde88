// Package config provides the configuration management for the fourcalc application.
// It defines the data structure for the configuration, handles the parsing of
// command-line arguments and environment variables, and performs validation on
// the configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/fourcalc/internal/errors"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/logging"
)

const (
	// EnvPrefix is the prefix for all environment variables used by fourcalc.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "FOURCALC_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultExponent is n in f(t) = t^(2n).
	DefaultExponent = 1
	// DefaultPeriods lists the candidate periods of the sweep.
	DefaultPeriods = "4,8,16,32,64,128"
	// DefaultKMin and DefaultKMax bound the harmonic indices of the sweep.
	DefaultKMin = 0
	DefaultKMax = 20
	// DefaultTimeout is the default timeout for the whole sweep.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo is the default quadrature rule selection.
	DefaultAlgo = "all"
	// DefaultCompareTolerance is the default agreement required between
	// rules, relative to the L1 norm of f.
	DefaultCompareTolerance = 1e-6
	// DefaultMaxWk is the largest |wk| the HTTP service accepts.
	DefaultMaxWk = 1000.0
	// DefaultLogLevel keeps the sweep quiet unless asked otherwise.
	DefaultLogLevel = "warn"
	// MaxHarmonics caps the number of harmonic indices per period.
	MaxHarmonics = 10_000
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags and environment variables.
type AppConfig struct {
	// Exponent is n in f(t) = t^(2n); the window is [-100·n, 100·n].
	Exponent int
	// Periods are the candidate periods T of the sweep.
	Periods PeriodList
	// KMin and KMax bound the harmonic index k, inclusive.
	KMin int
	KMax int
	// Algo specifies the quadrature rule ("all", "kronrod", "legendre", "simpson").
	Algo string
	// Timeout sets the maximum duration for the whole sweep.
	Timeout time.Duration
	// RelTolerance is the relative accuracy requested from the rules.
	RelTolerance float64
	// MaxSubdivisions bounds the Gauss–Kronrod bisections.
	MaxSubdivisions int
	// Workers bounds the number of concurrent evaluations per sweep.
	Workers int
	// CompareTolerance is the agreement required between rules, relative to
	// the L1 norm of f.
	CompareTolerance float64
	// Details, if true, prints per-period statistics after the table.
	Details bool
	// Plot, if true, prints stem charts of Re and |F| against k.
	Plot bool
	// JSONOutput, if true, outputs the results in JSON format.
	JSONOutput bool
	// Quiet mode prints one whitespace-separated line per point and nothing else.
	Quiet bool
	// OutputFile, if set, receives the coefficient table as CSV.
	OutputFile string
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// MaxWk is the largest |wk| accepted by the HTTP service.
	MaxWk float64
	// Interactive, if true, starts the application in REPL mode.
	Interactive bool
	// Completion, if set, generates a shell completion script
	// ("bash", "zsh", "fish", "powershell").
	Completion string
	// NoColor, if true, disables all color output (also NO_COLOR).
	NoColor bool
	// LogLevel is the zerolog level name for diagnostic logs.
	LogLevel string
}

// Target returns the function selected by the configuration.
func (c AppConfig) Target() fourier.Target {
	return fourier.Target{Exponent: c.Exponent}
}

// ToEvaluationOptions converts the configuration into fourier.Options.
func (c AppConfig) ToEvaluationOptions() fourier.Options {
	opts := fourier.DefaultOptions()
	if c.RelTolerance > 0 {
		opts.RelTolerance = c.RelTolerance
	}
	if c.MaxSubdivisions > 0 {
		opts.MaxSubdivisions = c.MaxSubdivisions
	}
	return opts
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Parameters:
//   - availableAlgos: The registered quadrature rule names.
//
// Returns:
//   - error: A ConfigError if the configuration is invalid, nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Exponent < 1 {
		return apperrors.NewConfigError("exponent n must be at least 1, got %d", c.Exponent)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if len(c.Periods) == 0 {
		return apperrors.NewConfigError("at least one period is required")
	}
	for _, p := range c.Periods {
		if p <= 0 || math.IsInf(p, 0) || math.IsNaN(p) {
			return apperrors.NewConfigError("periods must be finite and strictly positive, got %g", p)
		}
	}
	if c.KMin < 0 || c.KMax < c.KMin {
		return apperrors.NewConfigError("harmonic range must satisfy 0 <= k-min <= k-max, got %d..%d", c.KMin, c.KMax)
	}
	if c.KMax-c.KMin >= MaxHarmonics {
		return apperrors.NewConfigError("harmonic range too large: %d indices (max %d)", c.KMax-c.KMin+1, MaxHarmonics)
	}
	if c.RelTolerance <= 0 || c.RelTolerance >= 1 {
		return apperrors.NewConfigError("tolerance must be in (0, 1), got %g", c.RelTolerance)
	}
	if c.MaxSubdivisions < 1 {
		return apperrors.NewConfigError("max subdivisions must be positive: %d", c.MaxSubdivisions)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1: %d", c.Workers)
	}
	if c.CompareTolerance <= 0 {
		return apperrors.NewConfigError("comparison tolerance must be strictly positive, got %g", c.CompareTolerance)
	}
	if c.MaxWk <= 0 {
		return apperrors.NewConfigError("max wk must be strictly positive, got %g", c.MaxWk)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return apperrors.NewConfigError("unrecognized log level: '%s'", c.LogLevel)
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// PeriodList is a comma-separated list of periods usable as a flag.Value.
type PeriodList []float64

// String implements flag.Value.
func (p *PeriodList) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, len(*p))
	for i, v := range *p {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value. It replaces the list.
func (p *PeriodList) Set(s string) error {
	parsed, err := ParsePeriods(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePeriods parses a comma-separated list of periods.
func ParsePeriods(s string) (PeriodList, error) {
	var out PeriodList
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid period %q", field)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("empty period list")
	}
	return out, nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. Environment variables fill in any flag not given on the command
// line, then the result is validated.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableAlgos: The registered quadrature rule names.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Quadrature rule: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	config.Periods, _ = ParsePeriods(DefaultPeriods)
	fs.IntVar(&config.Exponent, "n", DefaultExponent, "Exponent n of the target f(t) = t^(2n); the window is [-100n, 100n].")
	fs.Var(&config.Periods, "periods", "Comma-separated candidate periods T.")
	fs.IntVar(&config.KMin, "k-min", DefaultKMin, "Smallest harmonic index k.")
	fs.IntVar(&config.KMax, "k-max", DefaultKMax, "Largest harmonic index k.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the sweep.")
	fs.Float64Var(&config.RelTolerance, "tol", fourier.DefaultRelTolerance, "Relative accuracy requested from the quadrature.")
	fs.IntVar(&config.MaxSubdivisions, "max-subdiv", fourier.DefaultMaxSubdivisions, "Maximum Gauss-Kronrod subdivisions per integral.")
	fs.IntVar(&config.Workers, "workers", runtime.NumCPU(), "Concurrent evaluations per sweep.")
	fs.Float64Var(&config.CompareTolerance, "compare-tol", DefaultCompareTolerance, "Agreement required between rules, relative to the L1 norm of f.")
	fs.BoolVar(&config.Details, "d", false, "Display per-period statistics.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.Plot, "plot", false, "Display stem charts of Re(F) and |F| against k.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.Float64Var(&config.MaxWk, "max-wk", DefaultMaxWk, "Largest |wk| accepted in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the coefficient table to this CSV file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - one line per point, for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Diagnostic log level (debug, info, warn, error).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
