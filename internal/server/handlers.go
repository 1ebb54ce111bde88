package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/service"
)

// defaultAlgo is the rule used when the request names none and the
// configuration selects "all".
const defaultAlgo = "kronrod"

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleAlgorithms returns the available quadrature rules and the target
// function they integrate.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	target := s.service.Target()
	response := map[string]any{
		"algorithms": s.service.Algorithms(),
		"default":    s.defaultAlgo(),
		"n":          target.Exponent,
		"bound":      target.Bound(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleCoefficient evaluates one truncated Fourier coefficient.
//
// The frequency is given either directly as 'wk' or as a harmonic 'T' and
// 'k' (wk = 2πk/T); 'algo' selects the rule. Validation failures answer 400.
// An integration failure answers 200 with the error in the body, like a
// failed sweep point.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleCoefficient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params, err := parseCoefficientParams(r)
	if err != nil {
		var parseErr ParseError
		if errors.As(err, &parseErr) {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	if params.algo == "" {
		params.algo = s.defaultAlgo()
	}
	if !slices.Contains(s.service.Algorithms(), params.algo) {
		s.writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Unknown algorithm '%s'", params.algo))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	coef, err := s.service.Evaluate(ctx, params.algo, params.wk)
	duration := time.Since(start)

	switch {
	case errors.Is(err, service.ErrMaxValueExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("|wk| exceeds the maximum allowed (%g). This limit prevents resource exhaustion.", s.securityConfig.MaxWkValue))
		return
	case errors.Is(err, service.ErrInvalidFrequency):
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, s.buildResponse(params, coef, duration, err))
}

// coefficientParams holds the parsed query of a /coefficient request.
type coefficientParams struct {
	wk     float64
	period float64
	k      *int
	algo   string
}

// parseCoefficientParams extracts and validates the frequency and rule.
//
// Returns:
//   - coefficientParams: The parsed parameters; algo is empty when absent.
//   - error: A ParseError if validation fails, nil otherwise.
func parseCoefficientParams(r *http.Request) (coefficientParams, error) {
	q := r.URL.Query()
	params := coefficientParams{algo: q.Get("algo")}

	wkStr, periodStr, kStr := q.Get("wk"), q.Get("T"), q.Get("k")
	switch {
	case wkStr != "" && (periodStr != "" || kStr != ""):
		return params, ParseError{Message: "Give either 'wk' or 'T' and 'k', not both", StatusCode: http.StatusBadRequest}
	case wkStr != "":
		wk, err := strconv.ParseFloat(wkStr, 64)
		if err != nil || math.IsNaN(wk) || math.IsInf(wk, 0) {
			return params, ParseError{Message: "Invalid 'wk' parameter: must be a finite number", StatusCode: http.StatusBadRequest}
		}
		params.wk = wk
	case periodStr != "" && kStr != "":
		period, err := strconv.ParseFloat(periodStr, 64)
		if err != nil || !(period > 0) || math.IsInf(period, 0) {
			return params, ParseError{Message: "Invalid 'T' parameter: must be a positive number", StatusCode: http.StatusBadRequest}
		}
		k, err := strconv.Atoi(kStr)
		if err != nil || k < 0 {
			return params, ParseError{Message: "Invalid 'k' parameter: must be a non-negative integer", StatusCode: http.StatusBadRequest}
		}
		params.period, params.k = period, &k
		params.wk = fourier.AngularFrequency(period, k)
	default:
		return params, ParseError{Message: "Missing 'wk' parameter (or 'T' and 'k')", StatusCode: http.StatusBadRequest}
	}
	return params, nil
}

func (s *Server) defaultAlgo() string {
	if s.cfg.Algo != "" && s.cfg.Algo != "all" {
		return s.cfg.Algo
	}
	return defaultAlgo
}

// buildResponse constructs the response of a coefficient request.
func (s *Server) buildResponse(params coefficientParams, coef fourier.Coefficient, duration time.Duration, err error) Response {
	target := s.service.Target()
	resp := Response{
		N:         target.Exponent,
		Bound:     target.Bound(),
		Wk:        params.wk,
		Period:    params.period,
		K:         params.k,
		Duration:  duration.String(),
		Algorithm: params.algo,
	}

	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = &CoefficientResult{Real: coef.Real, Imag: coef.Imag, Amplitude: coef.Amplitude()}
	}
	return resp
}

// writeJSONResponse writes data as JSON with the correct content type.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

// writeErrorResponse writes a standardized error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
