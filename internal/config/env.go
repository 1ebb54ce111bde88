// Package config provides the configuration management for the fourcalc application.
// This file contains environment variable utilities for configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of EnvPrefix+key, or defaultVal if unset.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns EnvPrefix+key parsed as int, or defaultVal if unset or
// invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns EnvPrefix+key parsed as float64, or defaultVal if
// unset or invalid.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns EnvPrefix+key parsed as bool, or defaultVal if unset.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns EnvPrefix+key parsed as time.Duration ("5m",
// "30s", "1h30m"), or defaultVal if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvPeriods returns EnvPrefix+key parsed as a period list, or
// defaultVal if unset or invalid.
func getEnvPeriods(key string, defaultVal PeriodList) PeriodList {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := ParsePeriods(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - FOURCALC_N: Exponent n (int)
//   - FOURCALC_PERIODS: Candidate periods (comma-separated floats)
//   - FOURCALC_K_MIN, FOURCALC_K_MAX: Harmonic range (int)
//   - FOURCALC_ALGO: Quadrature rule (string: kronrod, legendre, simpson, all)
//   - FOURCALC_TIMEOUT: Sweep timeout (duration: "5m", "30s")
//   - FOURCALC_TOL: Relative tolerance (float)
//   - FOURCALC_MAX_SUBDIV: Gauss-Kronrod subdivision budget (int)
//   - FOURCALC_WORKERS: Concurrent evaluations per sweep (int)
//   - FOURCALC_COMPARE_TOL: Cross-check tolerance (float)
//   - FOURCALC_PORT: Port for server mode (string)
//   - FOURCALC_MAX_WK: Largest |wk| accepted in server mode (float)
//   - FOURCALC_OUTPUT: CSV output file path (string)
//   - FOURCALC_LOG_LEVEL: Diagnostic log level (string)
//   - FOURCALC_SERVER, FOURCALC_JSON, FOURCALC_QUIET, FOURCALC_DETAILS,
//     FOURCALC_PLOT, FOURCALC_INTERACTIVE, FOURCALC_NO_COLOR (bool)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericOverrides(config, fs)
	applyDurationOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "n") {
		config.Exponent = getEnvInt("N", config.Exponent)
	}
	if !isFlagSet(fs, "periods") {
		config.Periods = getEnvPeriods("PERIODS", config.Periods)
	}
	if !isFlagSet(fs, "k-min") {
		config.KMin = getEnvInt("K_MIN", config.KMin)
	}
	if !isFlagSet(fs, "k-max") {
		config.KMax = getEnvInt("K_MAX", config.KMax)
	}
	if !isFlagSet(fs, "tol") {
		config.RelTolerance = getEnvFloat("TOL", config.RelTolerance)
	}
	if !isFlagSet(fs, "max-subdiv") {
		config.MaxSubdivisions = getEnvInt("MAX_SUBDIV", config.MaxSubdivisions)
	}
	if !isFlagSet(fs, "workers") {
		config.Workers = getEnvInt("WORKERS", config.Workers)
	}
	if !isFlagSet(fs, "compare-tol") {
		config.CompareTolerance = getEnvFloat("COMPARE_TOL", config.CompareTolerance)
	}
	if !isFlagSet(fs, "max-wk") {
		config.MaxWk = getEnvFloat("MAX_WK", config.MaxWk)
	}
}

func applyDurationOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "algo") {
		config.Algo = getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "d") && !isFlagSet(fs, "details") {
		config.Details = getEnvBool("DETAILS", config.Details)
	}
	if !isFlagSet(fs, "plot") {
		config.Plot = getEnvBool("PLOT", config.Plot)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "interactive") {
		config.Interactive = getEnvBool("INTERACTIVE", config.Interactive)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}
