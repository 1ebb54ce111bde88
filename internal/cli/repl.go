// Package cli provides the REPL (Read-Eval-Print Loop) functionality
// for interactive coefficient evaluation.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the rule selected at startup ("all" picks the first).
	DefaultAlgo string
	// Timeout is the maximum duration of each evaluation.
	Timeout time.Duration
	// CompareTolerance is the agreement threshold of "compare", relative to
	// the L1 norm of the target.
	CompareTolerance float64
}

// REPL represents an interactive evaluation session. Every evaluator of the
// registry shares the same target.
type REPL struct {
	config      REPLConfig
	registry    map[string]fourier.Evaluator
	names       []string
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - registry: Map of available evaluators, keyed by rule name.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(registry map[string]fourier.Evaluator, config REPLConfig) *REPL {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	currentAlgo := config.DefaultAlgo
	if _, ok := registry[currentAlgo]; !ok && len(names) > 0 {
		currentAlgo = names[0]
	}

	return &REPL{
		config:      config,
		registry:    registry,
		names:       names,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive session. It reads commands until "exit" or
// EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"fourier> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Run a last command that has no trailing newline
				if line := strings.TrimSpace(input); line != "" && !r.processCommand(line) {
					return
				}
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) target() fourier.Target {
	if ev, ok := r.registry[r.currentAlgo]; ok {
		return ev.Target()
	}
	return fourier.Target{Exponent: 1}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s∿ Fourier Coefficient Calculator - Interactive Mode%s  %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "Target: %s%s%s\n\n", ui.ColorMagenta(), r.target(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %seval <wk>%s       - Evaluate F(wk) with the current rule\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spoint <T> <k>%s   - Evaluate F(2πk/T)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare <wk>%s    - Compare all rules at wk\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s     - Change rule (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %slist%s            - List available rules\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s          - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s            - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s     - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// getAlgoList returns a comma-separated list of available rules.
func (r *REPL) getAlgoList() string {
	return strings.Join(r.names, ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "eval", "e":
		r.cmdEval(args)
	case "point", "p":
		r.cmdPoint(args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// A bare number is a shorthand for "eval"
		if wk, err := strconv.ParseFloat(cmd, 64); err == nil {
			r.evaluate(wk)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}

	return true
}

func (r *REPL) parseFrequency(usage string, args []string) (float64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s%s\n", ui.ColorRed(), usage, ui.ColorReset())
		return 0, false
	}
	wk, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return 0, false
	}
	return wk, true
}

// cmdEval handles the "eval" command.
func (r *REPL) cmdEval(args []string) {
	if wk, ok := r.parseFrequency("eval <wk>", args); ok {
		r.evaluate(wk)
	}
}

// cmdPoint handles the "point" command.
func (r *REPL) cmdPoint(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(r.out, "%sUsage: point <T> <k>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	period, err := strconv.ParseFloat(args[0], 64)
	if err != nil || period <= 0 {
		fmt.Fprintf(r.out, "%sInvalid period: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	k, err := strconv.Atoi(args[1])
	if err != nil || k < 0 {
		fmt.Fprintf(r.out, "%sInvalid harmonic: %s%s\n", ui.ColorRed(), args[1], ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "T = %s, k = %d\n", FormatPeriod(period), k)
	r.evaluate(fourier.AngularFrequency(period, k))
}

func (r *REPL) run(ev fourier.Evaluator, wk float64) (fourier.Coefficient, time.Duration, error) {
	ctx := context.Background()
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	start := time.Now()
	coef, err := ev.Evaluate(ctx, wk)
	return coef, time.Since(start), err
}

// evaluate computes F(wk) with the current rule and prints it.
func (r *REPL) evaluate(wk float64) {
	ev, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sAlgorithm not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "Evaluating F(%s%g%s) with %s%s%s...\n",
		ui.ColorMagenta(), wk, ui.ColorReset(), ui.ColorCyan(), ev.Name(), ui.ColorReset())

	coef, duration, err := r.run(ev, wk)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:       %s%s%s\n", ui.ColorGreen(), FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Re(F(wk)) = %s%s%s\n", ui.ColorSigned(coef.Real), FormatValue(coef.Real), ui.ColorReset())
	fmt.Fprintf(r.out, "  Im(F(wk)) = %s%s%s\n", ui.ColorSigned(coef.Imag), FormatValue(coef.Imag), ui.ColorReset())
	fmt.Fprintf(r.out, "  |F(wk)|   = %s%s%s\n\n", ui.ColorCyan(), FormatValue(coef.Amplitude()), ui.ColorReset())
}

// cmdAlgo handles the "algo" command.
func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available algorithms: %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	if _, ok := r.registry[name]; !ok {
		fmt.Fprintf(r.out, "%sUnknown algorithm: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available algorithms: %s\n", r.getAlgoList())
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Algorithm changed to: %s%s%s\n", ui.ColorGreen(), r.registry[name].Name(), ui.ColorReset())
}

// cmdCompare evaluates wk with every rule and checks them against the first
// successful one.
func (r *REPL) cmdCompare(args []string) {
	wk, ok := r.parseFrequency("compare <wk>", args)
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for F(%g):%s\n", ui.ColorBold(), wk, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	var reference *fourier.Coefficient
	for _, name := range r.names {
		coef, duration, err := r.run(r.registry[name], wk)
		if err != nil {
			fmt.Fprintf(r.out, "  %s%-10s%s: %sError - %v%s\n",
				ui.ColorYellow(), name, ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		if reference == nil {
			reference = &coef
		}

		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if !fourier.Agree(coef, *reference, r.config.CompareTolerance, r.target()) {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}

		fmt.Fprintf(r.out, "  %s%-10s%s: Re = %-20s |F| = %-20s %s%10s%s %s\n",
			ui.ColorYellow(), name, ui.ColorReset(),
			FormatValue(coef.Real), FormatValue(coef.Amplitude()),
			ui.ColorCyan(), FormatExecutionDuration(duration), ui.ColorReset(),
			status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// cmdList handles the "list" command.
func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable algorithms:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.names {
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), r.registry[name].Name())
	}
	fmt.Fprintln(r.out)
}

// cmdStatus displays current REPL configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Target:           %s%s%s\n", ui.ColorCyan(), r.target(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Algorithm:        %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:          %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Compare tolerance: %s%g%s\n", ui.ColorCyan(), r.config.CompareTolerance, ui.ColorReset())
	fmt.Fprintln(r.out)
}
