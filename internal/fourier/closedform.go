package fourier

import "math"

// maxSeriesTerms caps the Taylor expansion used for small arguments.
const maxSeriesTerms = 400

// ClosedForm returns the exact value of the coefficient that Evaluate
// approximates, with the same π factor in the kernel:
//
//	Real = ∫ f(t)·cos(-wk·π·t) dt,  Imag = ∫ f(t)·sin(-wk·π·t) dt
//
// It reduces the integrals to the moments of u^m against cos(x·u) and
// sin(x·u) on [-1, 1], x = wk·π·N. Large x uses the integration-by-parts
// recurrence, which is forward-stable once x exceeds m; small x uses the
// Taylor series of the kernel.
//
// ClosedForm is a test oracle. The sweep never uses it.
func ClosedForm(target Target, wk float64) Coefficient {
	if !isFinite(wk) {
		return Coefficient{Real: math.NaN(), Imag: math.NaN()}
	}
	n := target.Bound()
	m := target.Degree()
	x := wk * math.Pi * n
	c, s := unitMoments(m, math.Abs(x))
	if x < 0 {
		s = -s
	}
	scale := math.Pow(n, float64(m+1))
	// sin(-x·u) = -sin(x·u)
	return Coefficient{Real: scale * c, Imag: -scale * s}
}

// unitMoments returns ∫ u^m cos(x·u) du and ∫ u^m sin(x·u) du over [-1, 1]
// for x ≥ 0.
func unitMoments(m int, x float64) (c, s float64) {
	if x <= math.Max(2, float64(m)) {
		return seriesMoments(m, x)
	}
	sin, cos := math.Sincos(x)
	c = 2 * sin / x
	s = 0
	for k := 1; k <= m; k++ {
		kf := float64(k)
		even := k%2 == 0
		var nc, ns float64
		if even {
			nc = 2*sin/x - kf/x*s
			ns = kf / x * c
		} else {
			nc = -kf / x * s
			ns = -2*cos/x + kf/x*c
		}
		c, s = nc, ns
	}
	return c, s
}

func seriesMoments(m int, x float64) (c, s float64) {
	// ∫ u^p du over [-1, 1] is 2/(p+1) for even p and 0 otherwise.
	moment := func(p int) float64 {
		if p%2 != 0 {
			return 0
		}
		return 2 / float64(p+1)
	}
	term := 1.0 // x^j / j!
	for j := 0; j < maxSeriesTerms; j++ {
		if j > 0 {
			term *= x / float64(j)
		}
		mu := moment(m + j)
		if mu == 0 {
			continue
		}
		// cos(xu) = Σ (-1)^i (xu)^(2i)/(2i)!, sin(xu) = Σ (-1)^i (xu)^(2i+1)/(2i+1)!
		sign := 1.0
		if (j/2)%2 == 1 {
			sign = -1
		}
		contribution := sign * term * mu
		if j%2 == 0 {
			c += contribution
		} else {
			s += contribution
		}
		if float64(j) > x && math.Abs(contribution) <= 1e-18*(math.Abs(c)+math.Abs(s)) {
			break
		}
	}
	return c, s
}
