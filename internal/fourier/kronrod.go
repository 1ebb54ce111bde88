package fourier

import (
	"container/heap"
	"context"
	"math"
)

// Gauss–Kronrod 21-point abscissae on [-1, 1], largest first. The odd
// entries are the nodes of the embedded 10-point Gauss rule.
var xgk = [11]float64{
	0.995657163025808080735527280689003,
	0.973906528517171720077964012084452,
	0.930157491355708226001207180059508,
	0.865063366688984510732096688423493,
	0.780817726586416897063717578345042,
	0.679409568299024406234327365114874,
	0.562757134668604683339000099272694,
	0.433395394129247190799265943165784,
	0.294392862701460198131126603103866,
	0.148874338981631210884826001129720,
	0,
}

// Kronrod weights matching xgk.
var wgk = [11]float64{
	0.011694638867371874278064396062192,
	0.032558162307964727478818972459390,
	0.054755896574351996031381300244580,
	0.075039674810919952767043140916190,
	0.093125454583697605535065465083366,
	0.109387158802297641899210590325805,
	0.123491976262065851077208980627938,
	0.134709217311473325928054001771707,
	0.142775938577060080797094273138717,
	0.147739104901338491374841515972068,
	0.149445554002916905664936468389821,
}

// Gauss 10-point weights for xgk[1], xgk[3], ..., xgk[9].
var wg = [5]float64{
	0.066671344308688137593568809893332,
	0.149451349150580593145776339657697,
	0.219086362515982043995534934228163,
	0.269266719309996355091226921569469,
	0.295524224714752870173892994651338,
}

// ctxCheckInterval is how many units of work run between context checks.
const ctxCheckInterval = 64

// GaussKronrod is a globally adaptive Gauss–Kronrod 10/21 rule. It keeps
// every segment in a max-heap keyed on its error estimate and bisects the
// worst one until the summed estimate meets the tolerance.
type GaussKronrod struct{}

// Name returns the display name of the rule.
func (r *GaussKronrod) Name() string {
	return "Gauss-Kronrod 21 (global adaptive)"
}

// Integrate implements Integrator.
func (r *GaussKronrod) Integrate(ctx context.Context, f func(float64) float64, lo, hi float64, panels int, opts Options) (float64, error) {
	segments := make(segmentHeap, 0, panels+2)
	var total, errSum float64
	for i := 0; i < panels; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		a, b := panelBounds(lo, hi, i, panels)
		res, est := gk21(f, a, b)
		segments = append(segments, segment{lo: a, hi: b, result: res, err: est})
		total += res
		errSum += est
	}
	heap.Init(&segments)

	for iter := 0; ; iter++ {
		if !isFinite(total) || !isFinite(errSum) {
			return 0, ErrNonFinite
		}
		if errSum <= math.Max(opts.AbsTolerance, opts.RelTolerance*math.Abs(total)) {
			break
		}
		if iter >= opts.MaxSubdivisions {
			return 0, ErrSubdivisionLimit
		}
		if iter%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		worst := heap.Pop(&segments).(segment)
		mid := 0.5 * (worst.lo + worst.hi)
		if mid <= worst.lo || mid >= worst.hi {
			return 0, ErrRoundoff
		}
		r1, e1 := gk21(f, worst.lo, mid)
		r2, e2 := gk21(f, mid, worst.hi)
		total += r1 + r2 - worst.result
		errSum += e1 + e2 - worst.err
		heap.Push(&segments, segment{lo: worst.lo, hi: mid, result: r1, err: e1})
		heap.Push(&segments, segment{lo: mid, hi: worst.hi, result: r2, err: e2})
	}

	// Resum to drop the drift of the running total.
	var sum float64
	for _, s := range segments {
		sum += s.result
	}
	return sum, nil
}

// gk21 applies the 21-point Kronrod rule to [a, b] and returns the
// estimate with |K21 - G10| as its error.
func gk21(f func(float64) float64, a, b float64) (result, errEst float64) {
	center := 0.5 * (a + b)
	half := 0.5 * (b - a)
	kronrod := wgk[10] * f(center)
	gauss := 0.0
	for j := 0; j < 10; j++ {
		dx := half * xgk[j]
		pair := f(center-dx) + f(center+dx)
		kronrod += wgk[j] * pair
		if j%2 == 1 {
			gauss += wg[j/2] * pair
		}
	}
	return kronrod * half, math.Abs((kronrod - gauss) * half)
}

type segment struct {
	lo, hi      float64
	result, err float64
}

// segmentHeap is a max-heap on the error estimate.
type segmentHeap []segment

func (h segmentHeap) Len() int           { return len(h) }
func (h segmentHeap) Less(i, j int) bool { return h[i].err > h[j].err }
func (h segmentHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *segmentHeap) Push(x any) { *h = append(*h, x.(segment)) }

func (h *segmentHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
