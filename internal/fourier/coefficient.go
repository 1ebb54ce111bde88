package fourier

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// agreeFloor is the absolute slack, relative to Target.L1Norm, under which
// two real parts always agree. It covers the round-off of both rules.
const agreeFloor = 100 * RoundoffFloor

// Coefficient is one evaluated Fourier coefficient. Real and Imag are the
// cosine and sine integrals of f against the kernel exp(-i·wk·π·t).
type Coefficient struct {
	Real float64
	Imag float64
}

// Amplitude returns the modulus of the coefficient.
func (c Coefficient) Amplitude() float64 {
	return Amplitude(c.Real, c.Imag)
}

// IsFinite reports whether both components are finite numbers.
func (c Coefficient) IsFinite() bool {
	return isFinite(c.Real) && isFinite(c.Imag)
}

// Amplitude returns sqrt(re² + im²). math.Hypot avoids intermediate
// overflow and gives Amplitude(r, 0) == |r| exactly.
func Amplitude(re, im float64) float64 {
	return math.Hypot(re, im)
}

// Agree reports whether a and b are the same coefficient of target up to
// tol. Real parts must agree to tol relative to their size. Imaginary parts
// vanish for an even target and only need to agree within tol · L1Norm.
func Agree(a, b Coefficient, tol float64, target Target) bool {
	norm := target.L1Norm()
	return scalar.EqualWithinAbsOrRel(a.Real, b.Real, agreeFloor*norm, tol) &&
		scalar.EqualWithinAbsOrRel(a.Imag, b.Imag, tol*norm, tol)
}

// AngularFrequency returns wk = 2πk/T for the harmonic k of the period T.
func AngularFrequency(period float64, k int) float64 {
	return 2 * math.Pi * float64(k) / period
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
