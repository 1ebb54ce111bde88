package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fourcalc/internal/config"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/logging"
	"github.com/agbru/fourcalc/internal/service"
)

// newMockFactory returns a factory whose "kronrod" and "simpson" rules
// return value (or err) for every integral.
func newMockFactory(value float64, err error) *fourier.DefaultFactory {
	f := fourier.NewDefaultFactory()
	for _, name := range []string{"kronrod", "legendre", "simpson"} {
		_ = f.Register(name, func() fourier.Integrator {
			return &fourier.MockIntegrator{NameValue: name, Value: value, Err: err}
		})
	}
	return f
}

// createTestServer initializes a server instance for testing.
func createTestServer(factory fourier.EvaluatorFactory, opts ...Option) *Server {
	cfg := config.AppConfig{Port: "8080", Exponent: 1, Algo: "all", MaxWk: 100}
	opts = append([]Option{WithLogger(logging.NewLogger(io.Discard, "test"))}, opts...)
	return NewServer(factory, cfg, opts...)
}

// TestHandleCoefficient verifies the behavior of the coefficient endpoint.
func TestHandleCoefficient(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		mockErr        error
		expectedStatus int
		expectedBody   string
		checkError     bool
	}{
		{
			name:           "Success with wk",
			queryParams:    "?wk=1.5",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Success with harmonic",
			queryParams:    "?T=4&k=1&algo=simpson",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing frequency",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing 'wk' parameter",
			checkError:     true,
		},
		{
			name:           "Invalid wk",
			queryParams:    "?wk=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be a finite number",
			checkError:     true,
		},
		{
			name:           "NaN wk",
			queryParams:    "?wk=NaN",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be a finite number",
			checkError:     true,
		},
		{
			name:           "Both forms",
			queryParams:    "?wk=1&T=4&k=1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "not both",
			checkError:     true,
		},
		{
			name:           "Non-positive period",
			queryParams:    "?T=0&k=1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid 'T' parameter",
			checkError:     true,
		},
		{
			name:           "Negative harmonic",
			queryParams:    "?T=4&k=-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid 'k' parameter",
			checkError:     true,
		},
		{
			name:           "Period without harmonic",
			queryParams:    "?T=4",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing 'wk' parameter",
			checkError:     true,
		},
		{
			name:           "Unknown algorithm",
			queryParams:    "?wk=1&algo=trapezoid",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Unknown algorithm 'trapezoid'",
			checkError:     true,
		},
		{
			name:           "Exceeds max wk",
			queryParams:    "?wk=-500",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "exceeds the maximum allowed (100)",
			checkError:     true,
		},
		{
			name:           "Integration error",
			queryParams:    "?wk=1",
			mockErr:        fourier.ErrSubdivisionLimit,
			expectedStatus: http.StatusOK,
			expectedBody:   "maximum number of subdivisions",
			checkError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer(newMockFactory(3, tt.mockErr))

			req := httptest.NewRequest("GET", "/coefficient"+tt.queryParams, http.NoBody)
			w := httptest.NewRecorder()

			server.handleCoefficient(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
			bodyBytes, _ := io.ReadAll(resp.Body)

			if tt.expectedStatus != http.StatusOK {
				var errResp ErrorResponse
				if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
					t.Fatalf("Failed to unmarshal error response: %v", err)
				}
				if !strings.Contains(errResp.Message, tt.expectedBody) {
					t.Errorf("Expected error message to contain %q, got %q", tt.expectedBody, errResp.Message)
				}
				return
			}

			var jsonResp Response
			if err := json.Unmarshal(bodyBytes, &jsonResp); err != nil {
				t.Fatalf("Failed to unmarshal JSON response: %v", err)
			}
			if tt.checkError {
				if !strings.Contains(jsonResp.Error, tt.expectedBody) || jsonResp.Result != nil {
					t.Errorf("Expected error containing %q, got %+v", tt.expectedBody, jsonResp)
				}
				return
			}
			if jsonResp.Result == nil {
				t.Fatalf("Expected a result, got error %q", jsonResp.Error)
			}
			if jsonResp.Result.Real != 3 || jsonResp.Result.Imag != 3 {
				t.Errorf("Expected 3+3i, got %+v", jsonResp.Result)
			}
			if math.Abs(jsonResp.Result.Amplitude-3*math.Sqrt2) > 1e-12 {
				t.Errorf("Expected amplitude 3√2, got %g", jsonResp.Result.Amplitude)
			}
			if jsonResp.N != 1 || jsonResp.Bound != 100 {
				t.Errorf("Expected n=1 bound=100, got n=%d bound=%g", jsonResp.N, jsonResp.Bound)
			}
		})
	}
}

// TestHandleCoefficientHarmonicEcho verifies that T and k are echoed with
// wk = 2πk/T and that the default rule is used.
func TestHandleCoefficientHarmonicEcho(t *testing.T) {
	server := createTestServer(newMockFactory(1, nil))

	req := httptest.NewRequest("GET", "/coefficient?T=8&k=3", http.NoBody)
	w := httptest.NewRecorder()
	server.handleCoefficient(w, req)

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Period != 8 || resp.K == nil || *resp.K != 3 {
		t.Errorf("Expected T=8 k=3, got T=%g k=%v", resp.Period, resp.K)
	}
	if want := 2 * math.Pi * 3 / 8; math.Abs(resp.Wk-want) > 1e-15 {
		t.Errorf("Expected wk=%g, got %g", want, resp.Wk)
	}
	if resp.Algorithm != "kronrod" {
		t.Errorf("Expected default algorithm kronrod, got %s", resp.Algorithm)
	}
}

// TestHandleCoefficientRealRule checks one end-to-end value against the
// closed form.
func TestHandleCoefficientRealRule(t *testing.T) {
	server := createTestServer(fourier.NewDefaultFactory())

	req := httptest.NewRequest("GET", "/coefficient?wk=0.5&algo=kronrod", http.NoBody)
	w := httptest.NewRecorder()
	server.handleCoefficient(w, req)

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result == nil {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	target := fourier.Target{Exponent: 1}
	want := fourier.ClosedForm(target, 0.5)
	tol := 1e-7 * target.L1Norm()
	if math.Abs(resp.Result.Real-want.Real) > tol || math.Abs(resp.Result.Imag-want.Imag) > tol {
		t.Errorf("got %+v, want %+v", resp.Result, want)
	}
}

// TestHandleHealth verifies the health check endpoint.
func TestHandleHealth(t *testing.T) {
	server := createTestServer(newMockFactory(0, nil))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var healthResp map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		t.Errorf("Failed to decode health response: %v", err)
	}
	if healthResp["status"] != "healthy" {
		t.Errorf("Expected status=healthy, got %v", healthResp["status"])
	}
}

// TestHandleAlgorithms verifies the algorithms listing endpoint.
func TestHandleAlgorithms(t *testing.T) {
	server := createTestServer(newMockFactory(0, nil))

	req := httptest.NewRequest("GET", "/algorithms", http.NoBody)
	w := httptest.NewRecorder()

	server.handleAlgorithms(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var algoResp map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&algoResp); err != nil {
		t.Fatalf("Failed to decode algorithms response: %v", err)
	}
	algos, ok := algoResp["algorithms"].([]any)
	if !ok {
		t.Fatal("Expected algorithms to be an array")
	}
	if len(algos) != 3 {
		t.Errorf("Expected 3 algorithms, got %d", len(algos))
	}
	if algoResp["default"] != "kronrod" {
		t.Errorf("Expected default kronrod, got %v", algoResp["default"])
	}
}

// TestMethodNotAllowed verifies that non-GET methods are rejected.
func TestMethodNotAllowed(t *testing.T) {
	server := createTestServer(newMockFactory(0, nil))

	handlers := map[string]http.HandlerFunc{
		"/coefficient": server.handleCoefficient,
		"/health":      server.handleHealth,
		"/algorithms":  server.handleAlgorithms,
		"/metrics":     server.handleMetrics,
	}
	for endpoint, handler := range handlers {
		t.Run(endpoint, func(t *testing.T) {
			req := httptest.NewRequest("POST", endpoint, http.NoBody)
			w := httptest.NewRecorder()
			handler(w, req)
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405, got %d", w.Code)
			}
		})
	}
}

// recordingLogger captures Info messages.
type recordingLogger struct {
	logging.Logger
	messages []string
	fields   [][]logging.Field
}

func (l *recordingLogger) Info(msg string, fields ...logging.Field) {
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

// TestLoggingMiddleware verifies that the logging middleware executes the
// next handler and records the response status.
func TestLoggingMiddleware(t *testing.T) {
	logger := &recordingLogger{Logger: logging.NewLogger(io.Discard, "test")}
	server := createTestServer(newMockFactory(0, nil), WithLogger(logger))

	handlerCalled := false
	wrapped := server.loggingMiddleware(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", http.NoBody))

	if !handlerCalled {
		t.Error("Handler was not called")
	}
	if len(logger.messages) != 1 || logger.messages[0] != "request completed" {
		t.Fatalf("unexpected log messages: %v", logger.messages)
	}
	var status int
	for _, f := range logger.fields[0] {
		if f.Key == "status" {
			status, _ = f.Value.(int)
		}
	}
	if status != http.StatusTeapot {
		t.Errorf("logged status %d, want %d", status, http.StatusTeapot)
	}
}

// TestToleranceReachesEvaluator verifies that the configured tolerances are
// passed to the quadrature rules in API requests.
func TestToleranceReachesEvaluator(t *testing.T) {
	spy := &optionsSpy{}
	factory := fourier.NewDefaultFactory()
	_ = factory.Register("kronrod", func() fourier.Integrator { return spy })

	cfg := config.AppConfig{Port: "8080", Exponent: 1, RelTolerance: 1e-11, MaxSubdivisions: 77, MaxWk: 10}
	server := NewServer(factory, cfg, WithLogger(logging.NewLogger(io.Discard, "test")))

	w := httptest.NewRecorder()
	server.handleCoefficient(w, httptest.NewRequest("GET", "/coefficient?wk=1&algo=kronrod", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if spy.opts.RelTolerance != 1e-11 || spy.opts.MaxSubdivisions != 77 {
		t.Errorf("options not propagated: %+v", spy.opts)
	}
}

type optionsSpy struct{ opts fourier.Options }

func (s *optionsSpy) Name() string { return "spy" }
func (s *optionsSpy) Integrate(_ context.Context, _ func(float64) float64, _, _ float64, _ int, opts fourier.Options) (float64, error) {
	s.opts = opts
	return 0, nil
}

// TestParseCoefficientParams tests the query parser directly.
func TestParseCoefficientParams(t *testing.T) {
	tests := []struct {
		query   string
		wantWk  float64
		wantK   int
		wantErr bool
	}{
		{query: "wk=2.5", wantWk: 2.5},
		{query: "wk=-3", wantWk: -3},
		{query: "wk=1e2", wantWk: 100},
		{query: "T=4&k=2", wantWk: math.Pi, wantK: 2},
		{query: "T=4&k=0", wantWk: 0, wantK: 0},
		{query: "wk=Inf", wantErr: true},
		{query: "T=abc&k=1", wantErr: true},
		{query: "T=4&k=1.5", wantErr: true},
		{query: "k=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/coefficient?"+tt.query, http.NoBody)
			params, err := parseCoefficientParams(req)
			if tt.wantErr {
				var parseErr ParseError
				if !errors.As(err, &parseErr) || parseErr.StatusCode != http.StatusBadRequest {
					t.Errorf("expected a 400 ParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(params.wk-tt.wantWk) > 1e-15 {
				t.Errorf("wk = %g, want %g", params.wk, tt.wantWk)
			}
			if params.k != nil && *params.k != tt.wantK {
				t.Errorf("k = %d, want %d", *params.k, tt.wantK)
			}
		})
	}
}

// TestWithLogger verifies the logger option, including the nil fallback.
func TestWithLogger(t *testing.T) {
	custom := logging.NewLogger(io.Discard, "custom")
	s := createTestServer(newMockFactory(0, nil), WithLogger(custom))
	if s.logger != custom {
		t.Error("expected the custom logger")
	}
	s = createTestServer(newMockFactory(0, nil), WithLogger(nil))
	if s.logger == nil {
		t.Error("nil logger should keep the default")
	}
}

// TestWithStdLogger verifies the standard library adapter option.
func TestWithStdLogger(t *testing.T) {
	s := createTestServer(newMockFactory(0, nil), WithStdLogger(log.New(io.Discard, "", 0)))
	if _, ok := s.logger.(*logging.StdLoggerAdapter); !ok {
		t.Errorf("expected a StdLoggerAdapter, got %T", s.logger)
	}
}

// mockService is a hand-written service.Service for dependency injection.
type mockService struct {
	coef fourier.Coefficient
	err  error
	wk   float64
}

func (m *mockService) Evaluate(_ context.Context, _ string, wk float64) (fourier.Coefficient, error) {
	m.wk = wk
	return m.coef, m.err
}
func (m *mockService) Algorithms() []string   { return []string{"kronrod"} }
func (m *mockService) Target() fourier.Target { return fourier.Target{Exponent: 2} }

// TestWithService verifies that an injected service is used.
func TestWithService(t *testing.T) {
	svc := &mockService{coef: fourier.Coefficient{Real: -2, Imag: 5}}
	s := createTestServer(newMockFactory(0, nil), WithService(svc))

	w := httptest.NewRecorder()
	s.handleCoefficient(w, httptest.NewRequest("GET", "/coefficient?wk=0.25", http.NoBody))

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if svc.wk != 0.25 || resp.Result == nil || resp.Result.Real != -2 || resp.N != 2 || resp.Bound != 200 {
		t.Errorf("unexpected response %+v (wk seen %g)", resp, svc.wk)
	}
}

// TestServiceErrorsMapToBadRequest verifies the status of validation errors
// raised by the service.
func TestServiceErrorsMapToBadRequest(t *testing.T) {
	for _, err := range []error{service.ErrMaxValueExceeded, service.ErrInvalidFrequency} {
		s := createTestServer(newMockFactory(0, nil), WithService(&mockService{err: err}))
		w := httptest.NewRecorder()
		s.handleCoefficient(w, httptest.NewRequest("GET", "/coefficient?wk=1", http.NoBody))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", err, w.Code)
		}
	}
}

// TestWithTimeouts verifies the timeout option.
func TestWithTimeouts(t *testing.T) {
	timeouts := Timeouts{
		RequestTimeout:  time.Second,
		ShutdownTimeout: 2 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    4 * time.Second,
		IdleTimeout:     5 * time.Second,
	}
	s := createTestServer(newMockFactory(0, nil), WithTimeouts(timeouts))
	if s.timeouts != timeouts {
		t.Errorf("timeouts = %+v", s.timeouts)
	}
	if s.httpServer.ReadTimeout != 3*time.Second || s.httpServer.WriteTimeout != 4*time.Second {
		t.Error("http.Server timeouts not applied")
	}
}

// TestWithTimeoutsKeepsDefaults verifies that zero fields keep the defaults.
func TestWithTimeoutsKeepsDefaults(t *testing.T) {
	s := createTestServer(newMockFactory(0, nil), WithTimeouts(Timeouts{RequestTimeout: time.Second}))
	want := DefaultServerTimeouts()
	want.RequestTimeout = time.Second
	if s.timeouts != want {
		t.Errorf("timeouts = %+v, want %+v", s.timeouts, want)
	}
	if s.httpServer.WriteTimeout != want.WriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", s.httpServer.WriteTimeout, want.WriteTimeout)
	}
}

// TestWithMaxWk verifies that the option overrides the configured limit.
func TestWithMaxWk(t *testing.T) {
	s := createTestServer(newMockFactory(0, nil), WithMaxWk(5))
	if s.securityConfig.MaxWkValue != 5 {
		t.Errorf("MaxWkValue = %g, want 5", s.securityConfig.MaxWkValue)
	}

	w := httptest.NewRecorder()
	s.handleCoefficient(w, httptest.NewRequest("GET", "/coefficient?wk=6", http.NoBody))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 above the limit, got %d", w.Code)
	}
}

// TestParseErrorMessage tests the error string of ParseError.
func TestParseErrorMessage(t *testing.T) {
	err := ParseError{Message: "bad input", StatusCode: http.StatusBadRequest}
	if err.Error() != "bad input" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// TestGetClientIP verifies the precedence of the client address sources.
func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:80", "10.0.0.9"},
		{"remote ipv4", nil, "1.2.3.4:80", "1.2.3.4"},
		{"remote ipv6", nil, "[::1]:8080", "::1"},
		{"no port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSecurityMiddlewarePreflight verifies that OPTIONS requests are
// answered without reaching the handler.
func TestSecurityMiddlewarePreflight(t *testing.T) {
	called := false
	h := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) { called = true })

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodOptions, "/coefficient", http.NoBody))

	if called || w.Code != http.StatusNoContent {
		t.Errorf("preflight: called=%v status=%d", called, w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}
