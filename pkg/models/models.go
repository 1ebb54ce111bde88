/*
Package models defines the data structures shared by the output surfaces of
fourcalc.

These models are used for:
- **JSON output**: the `-json` report of a sweep comparison.
- **HTTP responses**: the payloads of the server endpoints.
- **Tabular output**: the rows rendered by the CLI table, CSV and charts.
*/
package models

// Sample is one evaluated point of a sweep: the coefficient of f at
// wk = 2πk/T.
type Sample struct {
	Period    float64 `json:"period"`          // Candidate period T.
	K         int     `json:"k"`               // Harmonic index.
	Wk        float64 `json:"wk"`              // Angular frequency 2πk/T.
	Real      float64 `json:"real"`            // Re(F(wk)).
	Imag      float64 `json:"imag"`            // Im(F(wk)).
	Amplitude float64 `json:"amplitude"`       // |F(wk)|.
	Error     string  `json:"error,omitempty"` // Integration failure, if any.
}

// Failed reports whether the sample could not be integrated.
func (s Sample) Failed() bool { return s.Error != "" }

// SweepReport is the serialized outcome of one sweep (one quadrature rule
// over the full grid).
type SweepReport struct {
	Algorithm  string   `json:"algorithm"`
	Exponent   int      `json:"n"`
	Bound      float64  `json:"bound"`
	DurationMs float64  `json:"duration_ms"`
	Failures   int      `json:"failures"`
	Error      string   `json:"error,omitempty"`
	Samples    []Sample `json:"samples"`
}

// PeriodSummary condenses the samples of one period.
type PeriodSummary struct {
	Period        float64 `json:"period"`
	PeakK         int     `json:"peak_k"`         // Harmonic with the largest amplitude.
	PeakAmplitude float64 `json:"peak_amplitude"` // Amplitude at PeakK.
	MeanAmplitude float64 `json:"mean_amplitude"`
	Failures      int     `json:"failures"`
}

// ComparisonReport is the document written by the `-json` flag.
type ComparisonReport struct {
	Status    string          `json:"status"` // "success", "partial", "mismatch" or "failure".
	ExitCode  int             `json:"exit_code"`
	Sweeps    []SweepReport   `json:"sweeps"`
	Summaries []PeriodSummary `json:"summaries,omitempty"`
}
