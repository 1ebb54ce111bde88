package fourier

import (
	"context"
	"sync/atomic"
)

// MockEvaluator is a mock implementation of the Evaluator interface.
// It is exported so that the orchestration, cli and server tests can use it.
type MockEvaluator struct {
	NameValue string
	Result    Coefficient
	Err       error
	Fn        func(ctx context.Context, wk float64) (Coefficient, error)
	TargetVal Target

	calls atomic.Int64
}

// Name returns the configured name, "mock" by default.
func (m *MockEvaluator) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Target returns the configured target, n = 1 by default.
func (m *MockEvaluator) Target() Target {
	if m.TargetVal.Exponent == 0 {
		return Target{Exponent: 1}
	}
	return m.TargetVal
}

// Evaluate returns the pre-configured Result and Err, or calls Fn if set.
func (m *MockEvaluator) Evaluate(ctx context.Context, wk float64) (Coefficient, error) {
	m.calls.Add(1)
	if m.Fn != nil {
		return m.Fn(ctx, wk)
	}
	return m.Result, m.Err
}

// Calls returns how many times Evaluate was invoked.
func (m *MockEvaluator) Calls() int { return int(m.calls.Load()) }

// MockIntegrator is an Integrator returning a fixed value, for registering
// in a DefaultFactory under test.
type MockIntegrator struct {
	NameValue string
	Value     float64
	Err       error
}

// Name returns the configured name, "mock" by default.
func (m *MockIntegrator) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Integrate returns the configured Value and Err, or ctx.Err() once the
// context is done.
func (m *MockIntegrator) Integrate(ctx context.Context, _ func(float64) float64, _, _ float64, _ int, _ Options) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.Value, m.Err
}
