package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/agbru/fourcalc/internal/config"
	apperrors "github.com/agbru/fourcalc/internal/errors"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/testutil"
)

// newTestFactory returns a factory holding only the given integrators.
func newTestFactory(t *testing.T, integrators map[string]*fourier.MockIntegrator) *fourier.DefaultFactory {
	t.Helper()
	f := fourier.NewDefaultFactory()
	for _, name := range f.List() {
		_ = f.Register(name, func() fourier.Integrator {
			return &fourier.MockIntegrator{NameValue: name, Err: errors.New("not under test")}
		})
	}
	for name, in := range integrators {
		mock := in
		if err := f.Register(name, func() fourier.Integrator { return mock }); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	return f
}

// TestNewCoefficientService tests the constructor.
func TestNewCoefficientService(t *testing.T) {
	factory := fourier.NewDefaultFactory()
	cfg := config.AppConfig{Exponent: 2, RelTolerance: 1e-9}

	svc := NewCoefficientService(factory, cfg, 500)
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	if svc.maxWk != 500 {
		t.Errorf("expected maxWk 500, got %g", svc.maxWk)
	}
	if svc.Target().Exponent != 2 {
		t.Errorf("expected exponent 2, got %d", svc.Target().Exponent)
	}
	if got := svc.Algorithms(); len(got) != 3 || got[0] != "kronrod" {
		t.Errorf("Algorithms() = %v", got)
	}
}

// TestEvaluate tests the Evaluate method.
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		algoName    string
		wk          float64
		maxWk       float64
		integrator  *fourier.MockIntegrator
		expectError error
		expectValue float64
	}{
		{
			name:        "successful evaluation",
			algoName:    "fast",
			wk:          1.5,
			maxWk:       100,
			integrator:  &fourier.MockIntegrator{Value: 42},
			expectValue: 42,
		},
		{
			name:        "exceeds max wk",
			algoName:    "fast",
			wk:          -200,
			maxWk:       100,
			expectError: ErrMaxValueExceeded,
		},
		{
			name:        "max wk is zero (no limit)",
			algoName:    "fast",
			wk:          1e4,
			maxWk:       0,
			integrator:  &fourier.MockIntegrator{Value: 7},
			expectValue: 7,
		},
		{
			name:        "NaN frequency",
			algoName:    "fast",
			wk:          math.NaN(),
			expectError: ErrInvalidFrequency,
		},
		{
			name:        "infinite frequency",
			algoName:    "fast",
			wk:          math.Inf(-1),
			expectError: ErrInvalidFrequency,
		},
		{
			name:     "algorithm not found",
			algoName: "unknown",
			wk:       1,
			maxWk:    100,
		},
		{
			name:       "integration error",
			algoName:   "fast",
			wk:         1,
			maxWk:      100,
			integrator: &fourier.MockIntegrator{Err: fourier.ErrSubdivisionLimit},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			integrators := map[string]*fourier.MockIntegrator{}
			if tc.integrator != nil {
				integrators[tc.algoName] = tc.integrator
			}
			svc := NewCoefficientService(newTestFactory(t, integrators), config.AppConfig{Exponent: 1}, tc.maxWk)

			coef, err := svc.Evaluate(context.Background(), tc.algoName, tc.wk)

			wantErr := tc.expectError != nil || tc.integrator == nil || tc.integrator.Err != nil
			if wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tc.expectError != nil && !errors.Is(err, tc.expectError) {
					t.Errorf("expected %v, got %v", tc.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if coef.Real != tc.expectValue || coef.Imag != tc.expectValue {
				t.Errorf("expected %g, got %+v", tc.expectValue, coef)
			}
		})
	}
}

// TestEvaluateWrapsIntegrationErrors checks that rule failures surface as
// IntegrationError.
func TestEvaluateWrapsIntegrationErrors(t *testing.T) {
	integrators := map[string]*fourier.MockIntegrator{"bad": {Err: fourier.ErrDepthLimit}}
	svc := NewCoefficientService(newTestFactory(t, integrators), config.AppConfig{Exponent: 1}, 0)

	_, err := svc.Evaluate(context.Background(), "bad", 1)
	if !apperrors.IsIntegrationError(err) || !errors.Is(err, fourier.ErrDepthLimit) {
		t.Errorf("expected an IntegrationError wrapping ErrDepthLimit, got %v", err)
	}
}

// TestEvaluateWithContext tests that context cancellation works.
func TestEvaluateWithContext(t *testing.T) {
	svc := NewCoefficientService(fourier.NewDefaultFactory(), config.AppConfig{Exponent: 1}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Evaluate(ctx, "kronrod", 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestEvaluateHarmonic checks wk = 2πk/T and the real rules against the
// closed form.
func TestEvaluateHarmonic(t *testing.T) {
	cfg := config.AppConfig{Exponent: 1, RelTolerance: 1e-10}
	svc := NewCoefficientService(fourier.NewDefaultFactory(), cfg, 0)
	target := svc.Target()

	got, err := svc.EvaluateHarmonic(context.Background(), "kronrod", 8, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fourier.ClosedForm(target, fourier.AngularFrequency(8, 3))
	tol := 1e-8 * target.L1Norm()
	testutil.AssertClose(t, "real", got.Real, want.Real, tol, 0)
	testutil.AssertClose(t, "imag", got.Imag, want.Imag, tol, 0)

	for _, period := range []float64{0, -4, math.Inf(1), math.NaN()} {
		if _, err := svc.EvaluateHarmonic(context.Background(), "kronrod", period, 1); !errors.Is(err, ErrInvalidFrequency) {
			t.Errorf("period %g: expected ErrInvalidFrequency, got %v", period, err)
		}
	}
}

// TestErrMaxValueExceeded tests the error variable.
func TestErrMaxValueExceeded(t *testing.T) {
	if ErrMaxValueExceeded.Error() != "maximum |wk| value exceeded" {
		t.Errorf("unexpected error message: %s", ErrMaxValueExceeded.Error())
	}
}

// TestServiceInterface tests that CoefficientService implements Service interface.
func TestServiceInterface(t *testing.T) {
	var _ Service = (*CoefficientService)(nil)
}
