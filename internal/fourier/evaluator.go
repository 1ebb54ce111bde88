package fourier

import (
	"context"
	"math"
	"time"

	apperrors "github.com/agbru/fourcalc/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourier_evaluations_total",
			Help: "The total number of Fourier coefficient evaluations processed",
		},
		[]string{"algorithm", "status"},
	)
	evaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fourier_evaluation_duration_seconds",
			Help: "The duration of Fourier coefficient evaluations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Evaluator defines the public interface for a coefficient evaluator. It is
// the abstraction used by the sweep, the REPL and the HTTP service.
type Evaluator interface {
	// Evaluate returns the coefficient at the angular frequency wk. It is
	// safe for concurrent use and honors cancellation through ctx; any
	// failure, timeout included, is reported as an apperrors.IntegrationError.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - wk: The angular frequency.
	//
	// Returns:
	//   - Coefficient: The real and imaginary integrals.
	//   - error: An IntegrationError if the rule did not converge.
	Evaluate(ctx context.Context, wk float64) (Coefficient, error)

	// Name returns the display name of the quadrature rule.
	Name() string

	// Target returns the function and window every evaluation uses.
	Target() Target
}

// Integrator is a pure quadrature rule. It integrates f over [lo, hi],
// starting from panels uniform panels, and returns a bare cause (one of the
// sentinel errors or a context error) on failure.
type Integrator interface {
	Integrate(ctx context.Context, f func(float64) float64, lo, hi float64, panels int, opts Options) (float64, error)
	Name() string
}

// QuadratureEvaluator implements Evaluator by decorating an Integrator with
// the kernel construction, error classification, metrics, tracing and
// logging. The target and options are fixed at construction, so every
// sample of one sweep uses the same f and N.
type QuadratureEvaluator struct {
	core   Integrator
	target Target
	opts   Options
}

// NewEvaluator constructs an Evaluator around the quadrature rule core.
// It panics if core is nil.
//
// Parameters:
//   - core: The quadrature rule.
//   - target: The function and window to integrate.
//   - opts: Tolerances and budgets; zero fields select defaults.
//
// Returns:
//   - *QuadratureEvaluator: The evaluator.
func NewEvaluator(core Integrator, target Target, opts Options) *QuadratureEvaluator {
	if core == nil {
		panic("fourier: the `Integrator` implementation cannot be nil")
	}
	return &QuadratureEvaluator{
		core:   core,
		target: target,
		opts:   normalizeOptions(opts, target),
	}
}

// EvaluateCoefficient computes one coefficient of target at wk with the
// given rule. It is a one-shot shorthand for NewEvaluator(...).Evaluate.
func EvaluateCoefficient(ctx context.Context, target Target, wk float64, core Integrator, opts Options) (Coefficient, error) {
	return NewEvaluator(core, target, opts).Evaluate(ctx, wk)
}

// Name returns the name of the wrapped rule.
func (e *QuadratureEvaluator) Name() string { return e.core.Name() }

// Target returns the evaluator's target.
func (e *QuadratureEvaluator) Target() Target { return e.target }

// Options returns the resolved options.
func (e *QuadratureEvaluator) Options() Options { return e.opts }

// Evaluate computes
//
//	Real = ∫_{-N}^{N} f(t)·cos(-wk·π·t) dt
//	Imag = ∫_{-N}^{N} f(t)·sin(-wk·π·t) dt
//
// The kernel carries π·wk, not wk: the frequency scaling is part of the
// quantity being computed and is kept as is.
func (e *QuadratureEvaluator) Evaluate(ctx context.Context, wk float64) (coef Coefficient, err error) {
	ctx, span := otel.Tracer("fourier").Start(ctx, "Evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("algorithm", e.core.Name()),
		attribute.Float64("wk", wk),
	)

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		algoName := e.core.Name()
		evaluationsTotal.WithLabelValues(algoName, status).Inc()
		evaluationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Float64("wk", wk).
			Float64("duration", duration).
			Str("status", status).
			Msg("evaluation completed")
	}()

	coef, cause := e.evaluate(ctx, wk)
	if cause != nil {
		return Coefficient{}, apperrors.NewIntegrationError(e.core.Name(), wk, cause)
	}
	return coef, nil
}

func (e *QuadratureEvaluator) evaluate(ctx context.Context, wk float64) (Coefficient, error) {
	if !isFinite(wk) {
		return Coefficient{}, ErrNonFinite
	}
	if err := ctx.Err(); err != nil {
		return Coefficient{}, err
	}

	omega := -wk * math.Pi
	n := e.target.Bound()
	panels, err := PanelCount(omega, -n, n)
	if err != nil {
		return Coefficient{}, err
	}

	re, err := e.core.Integrate(ctx, func(t float64) float64 {
		return e.target.Eval(t) * math.Cos(omega*t)
	}, -n, n, panels, e.opts.realPart())
	if err != nil {
		return Coefficient{}, err
	}
	im, err := e.core.Integrate(ctx, func(t float64) float64 {
		return e.target.Eval(t) * math.Sin(omega*t)
	}, -n, n, panels, e.opts)
	if err != nil {
		return Coefficient{}, err
	}

	coef := Coefficient{Real: re, Imag: im}
	if !coef.IsFinite() {
		return Coefficient{}, ErrNonFinite
	}
	return coef, nil
}
