package fourier

import (
	"errors"
	"math"
)

// Default quadrature settings.
const (
	// DefaultRelTolerance is the relative accuracy requested from every rule.
	DefaultRelTolerance = 1e-8
	// DefaultMaxSubdivisions bounds the bisections of the Gauss–Kronrod rule
	// beyond its initial panels.
	DefaultMaxSubdivisions = 10000
	// DefaultMaxDepth bounds the recursion of the adaptive Simpson rule.
	DefaultMaxDepth = 50
	// DefaultMaxOrder bounds the order of the Gauss–Legendre rule.
	DefaultMaxOrder = 512
	// RoundoffFloor is the smallest error, relative to Target.L1Norm, that a
	// sum over the whole window can resolve in float64.
	RoundoffFloor = 1e-13
	// MaxPanels caps the number of initial panels, which grows linearly
	// with |wk|.
	MaxPanels = 1 << 22
)

// Sentinel causes carried by IntegrationError.
var (
	ErrSubdivisionLimit = errors.New("maximum number of subdivisions reached before the tolerance was met")
	ErrDepthLimit       = errors.New("maximum recursion depth reached before the tolerance was met")
	ErrOrderLimit       = errors.New("maximum quadrature order reached before successive estimates agreed")
	ErrRoundoff         = errors.New("interval too small to subdivide further")
	ErrNonFinite        = errors.New("integrand or result is not finite")
	ErrTooManyPanels    = errors.New("frequency too high: too many oscillation panels")
)

// Options configures the quadrature rules. Zero values select defaults.
type Options struct {
	// RelTolerance is the requested relative accuracy.
	RelTolerance float64
	// AbsTolerance is the absolute accuracy of the imaginary part, which
	// vanishes for an even target. When zero it is derived as
	// RelTolerance · Target.L1Norm(). The real part is held to
	// RelTolerance with only RoundoffFloor · Scale below it.
	AbsTolerance float64
	// Scale is the magnitude of every integral of the run,
	// Target.L1Norm(). It sizes the budget of the first estimate.
	Scale float64
	// MaxSubdivisions bounds the Gauss–Kronrod bisections.
	MaxSubdivisions int
	// MaxDepth bounds the adaptive Simpson recursion.
	MaxDepth int
	// MaxOrder bounds the Gauss–Legendre order doubling.
	MaxOrder int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RelTolerance:    DefaultRelTolerance,
		MaxSubdivisions: DefaultMaxSubdivisions,
		MaxDepth:        DefaultMaxDepth,
		MaxOrder:        DefaultMaxOrder,
	}
}

// normalizeOptions returns a copy of opts with defaults filled in and the
// absolute tolerance resolved against the target.
func normalizeOptions(opts Options, target Target) Options {
	normalized := opts
	if normalized.RelTolerance <= 0 {
		normalized.RelTolerance = DefaultRelTolerance
	}
	if normalized.Scale <= 0 {
		normalized.Scale = target.L1Norm()
	}
	if normalized.AbsTolerance <= 0 {
		normalized.AbsTolerance = normalized.RelTolerance * target.L1Norm()
	}
	if normalized.MaxSubdivisions <= 0 {
		normalized.MaxSubdivisions = DefaultMaxSubdivisions
	}
	if normalized.MaxDepth <= 0 {
		normalized.MaxDepth = DefaultMaxDepth
	}
	if normalized.MaxOrder <= 0 {
		normalized.MaxOrder = DefaultMaxOrder
	}
	return normalized
}

// realPart returns the options for the real part: the absolute floor drops
// to RoundoffFloor · Scale so that RelTolerance governs.
func (o Options) realPart() Options {
	o.AbsTolerance = math.Min(o.AbsTolerance, RoundoffFloor*o.Scale)
	return o
}

// coarseTolerance is the error budget of a first estimate.
func (o Options) coarseTolerance() float64 {
	return math.Max(o.AbsTolerance, o.RelTolerance*o.Scale)
}

// targetTolerance is the error budget of an integral close to estimate.
func (o Options) targetTolerance(estimate float64) float64 {
	return math.Max(o.AbsTolerance, o.RelTolerance*math.Abs(estimate))
}

// refine runs integrate against the coarse budget, then once more against
// the budget relative to that first estimate when it is tighter. Rules that
// only see one panel at a time cannot size a relative budget otherwise.
func refine(opts Options, integrate func(tol float64) (float64, error)) (float64, error) {
	coarse := opts.coarseTolerance()
	rough, err := integrate(coarse)
	if err != nil {
		return 0, err
	}
	tol := opts.targetTolerance(rough)
	if tol >= coarse {
		return rough, nil
	}
	return integrate(tol)
}

// PanelCount returns the number of uniform initial panels for the kernel
// frequency omega on [lo, hi]: one per oscillation period, at least one.
func PanelCount(omega, lo, hi float64) (int, error) {
	if !isFinite(omega) {
		return 0, ErrNonFinite
	}
	panels := math.Ceil(math.Abs(omega) * (hi - lo) / (2 * math.Pi))
	if panels > MaxPanels {
		return 0, ErrTooManyPanels
	}
	if panels < 1 {
		return 1, nil
	}
	return int(panels), nil
}

// panelBounds returns the i-th of count uniform panels of [lo, hi]. The
// last panel ends exactly at hi.
func panelBounds(lo, hi float64, i, count int) (a, b float64) {
	width := (hi - lo) / float64(count)
	a = lo + float64(i)*width
	if i == count-1 {
		return a, hi
	}
	return a, a + width
}
