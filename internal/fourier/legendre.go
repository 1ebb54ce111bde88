package fourier

import (
	"context"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// legendreStartOrder is the first order tried on every panel.
const legendreStartOrder = 8

// GaussLegendre integrates each panel with gonum's fixed-order
// Gauss–Legendre rule, doubling the order until two successive estimates
// agree within the panel's share of the error budget. A first pass sizes
// the budget relative to the integral.
type GaussLegendre struct{}

// Name returns the display name of the rule.
func (r *GaussLegendre) Name() string {
	return "Gauss-Legendre (order doubling)"
}

// Integrate implements Integrator.
func (r *GaussLegendre) Integrate(ctx context.Context, f func(float64) float64, lo, hi float64, panels int, opts Options) (float64, error) {
	return refine(opts, func(tol float64) (float64, error) {
		return legendrePanels(ctx, f, lo, hi, panels, tol, opts.MaxOrder)
	})
}

func legendrePanels(ctx context.Context, f func(float64) float64, lo, hi float64, panels int, tol float64, maxOrder int) (float64, error) {
	span := hi - lo
	var total float64
	for i := 0; i < panels; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		a, b := panelBounds(lo, hi, i, panels)
		eps := tol * (b - a) / span
		v, err := legendrePanel(f, a, b, eps, maxOrder)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func legendrePanel(f func(float64) float64, a, b, eps float64, maxOrder int) (float64, error) {
	order := legendreStartOrder
	prev := quad.Fixed(f, a, b, order, quad.Legendre{}, 0)
	for {
		next := 2 * order
		if next > maxOrder {
			return 0, ErrOrderLimit
		}
		cur := quad.Fixed(f, a, b, next, quad.Legendre{}, 0)
		if !isFinite(cur) {
			return 0, ErrNonFinite
		}
		if math.Abs(cur-prev) <= eps {
			return cur, nil
		}
		prev, order = cur, next
	}
}
