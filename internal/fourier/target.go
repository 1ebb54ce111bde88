// Package fourier evaluates truncated Fourier coefficients of the even
// power f(t) = t^(2n) over the window [-N, N], N = 100·n, by adaptive
// numerical quadrature. It exposes an `Evaluator` interface that hides the
// quadrature rule in use, so that several rules (Gauss–Kronrod, Gauss–Legendre,
// adaptive Simpson) can be swept and cross-checked interchangeably.
package fourier

import (
	"fmt"
	"math"
)

// BoundPerExponent is the half-width of the integration window per unit of
// the exponent n: N = BoundPerExponent · n.
const BoundPerExponent = 100

// Target describes the function whose coefficients are evaluated,
// f(t) = t^(2·Exponent), together with its integration window.
type Target struct {
	// Exponent is n in f(t) = t^(2n). It must be at least 1.
	Exponent int
}

// NewTarget builds a validated Target for the exponent n.
func NewTarget(n int) (Target, error) {
	t := Target{Exponent: n}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// Validate reports whether the target has a strictly positive window.
func (t Target) Validate() error {
	if t.Exponent < 1 {
		return fmt.Errorf("exponent n must be at least 1, got %d", t.Exponent)
	}
	return nil
}

// Degree returns the polynomial degree 2n of f.
func (t Target) Degree() int { return 2 * t.Exponent }

// Bound returns N, the half-width of the integration window.
func (t Target) Bound() float64 { return float64(BoundPerExponent * t.Exponent) }

// Eval returns f(x) = x^(2n). The power is taken by repeated squaring so
// that f(-x) == f(x) holds bit for bit.
func (t Target) Eval(x float64) float64 {
	return powInt(x, t.Degree())
}

// L1Norm returns ∫|f| over the window, 2·N^(2n+1)/(2n+1). Every integral of
// f against a unit-modulus kernel is bounded by it, so it is the natural
// magnitude scale for absolute tolerances.
func (t Target) L1Norm() float64 {
	d := t.Degree() + 1
	return 2 * math.Pow(t.Bound(), float64(d)) / float64(d)
}

// String implements fmt.Stringer.
func (t Target) String() string {
	return fmt.Sprintf("t^%d on [-%g, %g]", t.Degree(), t.Bound(), t.Bound())
}

func powInt(x float64, e int) float64 {
	result := 1.0
	for e > 0 {
		if e&1 == 1 {
			result *= x
		}
		x *= x
		e >>= 1
	}
	return result
}
