package fourier

import (
	"context"
	"math"
)

// AdaptiveSimpson integrates each panel with recursive Simpson bisection
// and Richardson correction. The error budget is shared among panels in
// proportion to their width; a first pass sizes it relative to the integral.
type AdaptiveSimpson struct{}

// Name returns the display name of the rule.
func (r *AdaptiveSimpson) Name() string {
	return "Adaptive Simpson"
}

// Integrate implements Integrator.
func (r *AdaptiveSimpson) Integrate(ctx context.Context, f func(float64) float64, lo, hi float64, panels int, opts Options) (float64, error) {
	return refine(opts, func(tol float64) (float64, error) {
		return simpsonPanels(ctx, f, lo, hi, panels, tol, opts.MaxDepth)
	})
}

func simpsonPanels(ctx context.Context, f func(float64) float64, lo, hi float64, panels int, tol float64, maxDepth int) (float64, error) {
	span := hi - lo
	var total float64
	for i := 0; i < panels; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		a, b := panelBounds(lo, hi, i, panels)
		fa, fm, fb := f(a), f(0.5*(a+b)), f(b)
		whole := (b - a) / 6 * (fa + 4*fm + fb)
		eps := tol * (b - a) / span
		v, err := simpsonStep(f, a, b, fa, fm, fb, whole, eps, maxDepth)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func simpsonStep(f func(float64) float64, a, b, fa, fm, fb, whole, eps float64, depth int) (float64, error) {
	m := 0.5 * (a + b)
	flm := f(0.5 * (a + m))
	frm := f(0.5 * (m + b))
	left := (m - a) / 6 * (fa + 4*flm + fm)
	right := (b - m) / 6 * (fm + 4*frm + fb)
	delta := left + right - whole
	if math.Abs(delta) <= 15*eps {
		return left + right + delta/15, nil
	}
	if !isFinite(delta) {
		return 0, ErrNonFinite
	}
	if depth <= 0 {
		return 0, ErrDepthLimit
	}
	l, err := simpsonStep(f, a, m, fa, flm, fm, left, eps/2, depth-1)
	if err != nil {
		return 0, err
	}
	r, err := simpsonStep(f, m, b, fm, frm, fb, right, eps/2, depth-1)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}
