package server

// CoefficientResult holds the value of one truncated Fourier coefficient.
type CoefficientResult struct {
	Real      float64 `json:"real"`
	Imag      float64 `json:"imag"`
	Amplitude float64 `json:"amplitude"`
}

// Response represents the standardized JSON response for a coefficient request.
type Response struct {
	// N is the exponent of f(t) = t^(2n).
	N int `json:"n"`
	// Bound is the half-width of the integration window [-Bound, Bound].
	Bound float64 `json:"bound"`
	// Wk is the angular frequency the coefficient was evaluated at.
	Wk float64 `json:"wk"`
	// Period and K are echoed when the frequency was given as a harmonic.
	Period float64 `json:"period,omitempty"`
	K      *int    `json:"k,omitempty"`
	// Result is the coefficient. It is omitted if an error occurred.
	Result *CoefficientResult `json:"result,omitempty"`
	// Duration is the formatted execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the integration failed.
	Error string `json:"error,omitempty"`
	// Algorithm is the name of the quadrature rule used.
	Algorithm string `json:"algorithm"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// ParseError represents a parameter parsing error with HTTP status.
type ParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return e.Message
}
