package service

import (
	"context"
	"errors"
	"math"

	"github.com/agbru/fourcalc/internal/config"
	"github.com/agbru/fourcalc/internal/fourier"
)

var (
	// ErrMaxValueExceeded is returned when |wk| exceeds the configured maximum.
	ErrMaxValueExceeded = errors.New("maximum |wk| value exceeded")
	// ErrInvalidFrequency is returned for a NaN or infinite wk, or a
	// non-positive period.
	ErrInvalidFrequency = errors.New("frequency must be a finite number")
)

// Service defines the interface for coefficient evaluation services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Evaluate computes F(wk) with the named quadrature rule.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algoName: The name of the rule to use.
	//   - wk: The angular frequency.
	//
	// Returns:
	//   - fourier.Coefficient: The coefficient.
	//   - error: An error if validation or integration fails.
	Evaluate(ctx context.Context, algoName string, wk float64) (fourier.Coefficient, error)

	// Algorithms returns the names of the available rules.
	Algorithms() []string

	// Target returns the function every evaluation integrates.
	Target() fourier.Target
}

// CoefficientService handles the core logic for evaluating truncated Fourier
// coefficients. It centralizes validation, rule retrieval, and evaluation
// options. Implements the Service interface.
type CoefficientService struct {
	factory fourier.EvaluatorFactory
	config  config.AppConfig
	maxWk   float64
}

// Ensure CoefficientService implements Service interface.
var _ Service = (*CoefficientService)(nil)

// NewCoefficientService creates a new instance of CoefficientService.
//
// Parameters:
//   - factory: The factory to retrieve quadrature rules from.
//   - cfg: The application configuration (target and tolerances).
//   - maxWk: The largest |wk| accepted (0 for no limit).
func NewCoefficientService(factory fourier.EvaluatorFactory, cfg config.AppConfig, maxWk float64) *CoefficientService {
	return &CoefficientService{
		factory: factory,
		config:  cfg,
		maxWk:   maxWk,
	}
}

// Evaluate validates wk, builds the requested evaluator and computes the
// coefficient with the configured options.
func (s *CoefficientService) Evaluate(ctx context.Context, algoName string, wk float64) (fourier.Coefficient, error) {
	if math.IsNaN(wk) || math.IsInf(wk, 0) {
		return fourier.Coefficient{}, ErrInvalidFrequency
	}
	if s.maxWk > 0 && math.Abs(wk) > s.maxWk {
		return fourier.Coefficient{}, ErrMaxValueExceeded
	}

	ev, err := s.factory.Create(algoName, s.Target(), s.config.ToEvaluationOptions())
	if err != nil {
		return fourier.Coefficient{}, err
	}
	return ev.Evaluate(ctx, wk)
}

// EvaluateHarmonic computes the coefficient of harmonic k for period T,
// at wk = 2πk/T.
func (s *CoefficientService) EvaluateHarmonic(ctx context.Context, algoName string, period float64, k int) (fourier.Coefficient, error) {
	if !(period > 0) || math.IsInf(period, 0) {
		return fourier.Coefficient{}, ErrInvalidFrequency
	}
	return s.Evaluate(ctx, algoName, fourier.AngularFrequency(period, k))
}

// Algorithms returns the registered rule names.
func (s *CoefficientService) Algorithms() []string { return s.factory.List() }

// Target returns the configured function.
func (s *CoefficientService) Target() fourier.Target { return s.config.Target() }
