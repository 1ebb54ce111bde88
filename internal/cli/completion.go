// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
	"strings"
)

// programName is the command the completion scripts are registered for.
const programName = "fourcalc"

// completionFlag describes one command-line flag for the completion
// generators.
type completionFlag struct {
	long   string
	short  string
	desc   string
	values []string // fixed candidate values, nil when free-form
	file   bool     // complete file names
	takes  bool     // the flag expects an argument
}

// completionFlags returns the flags known to the completion scripts; the
// algorithm candidates come from the registry.
func completionFlags(algorithms []string) []completionFlag {
	return []completionFlag{
		{long: "help", short: "h", desc: "Show help message"},
		{long: "version", short: "V", desc: "Show version information"},
		{long: "n", desc: "Exponent n of f(t) = t^(2n)", values: []string{"1", "2", "3"}, takes: true},
		{long: "periods", desc: "Comma-separated candidate periods", values: []string{"4,8,16,32,64,128"}, takes: true},
		{long: "k-min", desc: "First harmonic index", takes: true},
		{long: "k-max", desc: "Last harmonic index", values: []string{"10", "20", "40"}, takes: true},
		{long: "algo", desc: "Quadrature rule", values: append(append([]string{}, algorithms...), "all"), takes: true},
		{long: "timeout", desc: "Maximum execution time", values: []string{"30s", "1m", "5m", "10m"}, takes: true},
		{long: "tol", desc: "Relative tolerance", values: []string{"1e-6", "1e-8", "1e-10"}, takes: true},
		{long: "max-subdiv", desc: "Gauss-Kronrod subdivision budget", takes: true},
		{long: "workers", desc: "Concurrent evaluations per sweep", takes: true},
		{long: "compare-tol", desc: "Cross-check tolerance", takes: true},
		{long: "details", short: "d", desc: "Show the spectrum summary"},
		{long: "plot", desc: "Render stem charts"},
		{long: "json", desc: "Output in JSON format"},
		{long: "output", short: "o", desc: "CSV output file path", file: true, takes: true},
		{long: "quiet", short: "q", desc: "Quiet mode for scripts"},
		{long: "no-color", desc: "Disable colored output"},
		{long: "log-level", desc: "Diagnostic log level", values: []string{"debug", "info", "warn", "error"}, takes: true},
		{long: "server", desc: "Start HTTP server mode"},
		{long: "port", desc: "Server port", values: []string{"8080", "3000", "5000", "9000"}, takes: true},
		{long: "max-wk", desc: "Largest |wk| accepted by the server", takes: true},
		{long: "interactive", desc: "Start interactive REPL mode"},
		{long: "completion", desc: "Generate completion script", values: []string{"bash", "zsh", "fish", "powershell"}, takes: true},
	}
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - algorithms: List of available algorithm names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	flags := completionFlags(algorithms)
	switch shell {
	case "bash":
		return generateBashCompletion(out, flags)
	case "zsh":
		return generateZshCompletion(out, flags)
	case "fish":
		return generateFishCompletion(out, flags)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, flags)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func dashed(f completionFlag) []string {
	names := []string{"-" + f.long}
	if len(f.long) > 1 {
		names = append(names, "--"+f.long)
	}
	if f.short != "" {
		names = append(names, "-"+f.short)
	}
	return names
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, flags []completionFlag) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flags {
		names := dashed(f)
		opts = append(opts, names...)
		pattern := strings.Join(names, "|")
		switch {
		case f.file:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", pattern)
		case len(f.values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				pattern, strings.Join(f.values, " "))
		}
	}

	_, err := fmt.Fprintf(out, `# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

_%[1]s_completions() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
%[2]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "%[3]s" -- "${cur}") )
        return 0
    fi
}

complete -F _%[1]s_completions %[1]s
`, programName, cases.String(), strings.Join(opts, " "))
	return err
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, flags []completionFlag) error {
	var args strings.Builder
	for _, f := range flags {
		spec := strings.Join(dashed(f), ",")
		if len(dashed(f)) > 1 {
			spec = "{" + spec + "}"
		}
		action := ""
		switch {
		case f.file:
			action = ":file:_files"
		case len(f.values) > 0:
			action = fmt.Sprintf(":value:(%s)", strings.Join(f.values, " "))
		case f.takes:
			action = ":value:"
		}
		fmt.Fprintf(&args, " \\\n        %s'[%s]%s'", spec, f.desc, action)
	}

	_, err := fmt.Fprintf(out, `#compdef %[1]s

# Zsh completion script for %[1]s
# Add this to your ~/.zshrc or place in $fpath

_%[1]s() {
    _arguments -s%[2]s
}

_%[1]s "$@"
`, programName, args.String())
	return err
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Fish completion script for %s\n", programName)
	fmt.Fprintf(&b, "# Add this to ~/.config/fish/completions/%s.fish\n\n", programName)
	fmt.Fprintf(&b, "# Disable file completion by default\ncomplete -c %s -f\n\n", programName)
	for _, f := range flags {
		line := "complete -c " + programName
		if len(f.long) == 1 {
			line += " -s " + f.long
		} else {
			line += " -l " + f.long
		}
		if f.short != "" {
			line += " -s " + f.short
		}
		line += fmt.Sprintf(" -d '%s'", f.desc)
		switch {
		case f.file:
			line += " -rF"
		case len(f.values) > 0:
			line += fmt.Sprintf(" -xa '%s'", strings.Join(f.values, " "))
		case f.takes:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, flags []completionFlag) error {
	var options, cases strings.Builder
	for _, f := range flags {
		for _, name := range dashed(f) {
			fmt.Fprintf(&options, "        @{Name = '%s'; Description = '%s' }\n", name, f.desc)
		}
		if len(f.values) > 0 {
			fmt.Fprintf(&cases, `        { $_ -in @(%s) } {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
`, psList(dashed(f)), psList(f.values))
		}
	}

	_, err := fmt.Fprintf(out, `# PowerShell completion script for %[1]s
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName '%[1]s' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%[2]s    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%[3]s    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, programName, options.String(), cases.String())
	return err
}
