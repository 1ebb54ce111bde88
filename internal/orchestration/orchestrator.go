package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/fourcalc/internal/cli"
	"github.com/agbru/fourcalc/internal/config"
	"github.com/agbru/fourcalc/internal/fourier"
	"github.com/agbru/fourcalc/internal/parallel"
	"github.com/agbru/fourcalc/pkg/models"
)

// Point is one sample of the sweep grid.
type Point struct {
	// Period is the candidate period T.
	Period float64
	// K is the harmonic index.
	K int
	// Wk is the angular frequency 2πk/T.
	Wk float64
}

// BuildGrid returns the sweep grid ordered by period, then by harmonic:
// every k in [kMin, kMax] for each period in the order given.
//
// Parameters:
//   - periods: The candidate periods.
//   - kMin, kMax: The inclusive harmonic range.
//
// Returns:
//   - []Point: len(periods)·(kMax-kMin+1) points, or nil for an empty range.
func BuildGrid(periods []float64, kMin, kMax int) []Point {
	if kMax < kMin || len(periods) == 0 {
		return nil
	}
	points := make([]Point, 0, len(periods)*(kMax-kMin+1))
	for _, period := range periods {
		for k := kMin; k <= kMax; k++ {
			points = append(points, Point{Period: period, K: k, Wk: fourier.AngularFrequency(period, k)})
		}
	}
	return points
}

// PointResult is the outcome of one grid point. Either Err is nil and
// Coefficient holds the value, or Err is the integration failure.
type PointResult struct {
	Point
	Coefficient fourier.Coefficient
	Duration    time.Duration
	Err         error
}

// Amplitude returns |F(wk)|, or 0 for a failed point.
func (r PointResult) Amplitude() float64 {
	if r.Err != nil {
		return 0
	}
	return r.Coefficient.Amplitude()
}

// Sample converts the result for the output layer.
func (r PointResult) Sample() models.Sample {
	s := models.Sample{Period: r.Period, K: r.K, Wk: r.Wk}
	if r.Err != nil {
		s.Error = r.Err.Error()
		return s
	}
	s.Real = r.Coefficient.Real
	s.Imag = r.Coefficient.Imag
	s.Amplitude = r.Coefficient.Amplitude()
	return s
}

// SweepResult encapsulates the outcome of one sweep: one quadrature rule
// evaluated over the whole grid.
type SweepResult struct {
	// Name is the rule used (e.g., "Gauss-Kronrod 21 (global adaptive)").
	Name string
	// Target is the integrated function, shared by every point.
	Target fourier.Target
	// Points holds one result per grid point, in grid order.
	Points []PointResult
	// Duration is the wall time of the sweep.
	Duration time.Duration
	// Failures is the number of points that could not be integrated.
	Failures int
	// Err is the first point failure, nil if every point succeeded.
	Err error
	// Interrupted is the first point failure caused by the deadline or a
	// cancellation. It can differ from Err when a point failed to converge
	// before the sweep was cut short.
	Interrupted error
}

// Succeeded reports whether every point of the sweep was integrated.
func (r SweepResult) Succeeded() bool { return r.Failures == 0 && r.Err == nil }

// Samples converts every point for the output layer.
func (r SweepResult) Samples() []models.Sample {
	samples := make([]models.Sample, len(r.Points))
	for i, p := range r.Points {
		samples[i] = p.Sample()
	}
	return samples
}

// Report converts the sweep for the output layer.
func (r SweepResult) Report() models.SweepReport {
	report := models.SweepReport{
		Algorithm:  r.Name,
		Exponent:   r.Target.Exponent,
		Bound:      r.Target.Bound(),
		DurationMs: float64(r.Duration) / float64(time.Millisecond),
		Failures:   r.Failures,
		Samples:    r.Samples(),
	}
	if r.Err != nil {
		report.Error = r.Err.Error()
	}
	return report
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking the workers
// when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteSweeps orchestrates the concurrent execution of one sweep per
// evaluator.
//
// Sweeps run concurrently; inside a sweep, points are evaluated on a worker
// pool bounded by cfg.Workers. A failing point is recorded in its
// PointResult and does not stop the sweep. Progress is reported per sweep to
// a spinner on out, to the zerolog logger and to the Prometheus progress
// gauge.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - evaluators: The evaluators to sweep with, all sharing one target.
//   - cfg: The application configuration (grid, workers).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []SweepResult: One result per evaluator, in the order given.
func ExecuteSweeps(ctx context.Context, evaluators []fourier.Evaluator, cfg config.AppConfig, out io.Writer) []SweepResult {
	grid := BuildGrid(cfg.Periods, cfg.KMin, cfg.KMax)
	results := make([]SweepResult, len(evaluators))
	progressChan := make(chan fourier.ProgressUpdate, len(evaluators)*ProgressBufferMultiplier)

	subject := fourier.NewProgressSubject()
	subject.Register(fourier.NewChannelObserver(progressChan))
	subject.Register(fourier.NewLoggingObserver(log.Logger, 0.25))
	metrics := fourier.NewMetricsObserver()
	subject.Register(metrics)
	defer metrics.ResetMetrics()

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(evaluators), out)

	var g errgroup.Group
	for i, ev := range evaluators {
		idx, evaluator := i, ev
		g.Go(func() error {
			results[idx] = runSweep(ctx, evaluator, grid, cfg.Workers, subject.AsProgressReporter(idx))
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// runSweep evaluates every grid point with ev on at most workers goroutines.
func runSweep(ctx context.Context, ev fourier.Evaluator, grid []Point, workers int, reporter fourier.ProgressReporter) SweepResult {
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	points := make([]PointResult, len(grid))

	var (
		failures parallel.ErrorCollector
		mu       sync.Mutex
	)
	counter := fourier.NewPointCounter(reporter, len(grid))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, p := range grid {
		idx, point := i, p
		g.Go(func() error {
			pointStart := time.Now()
			coef, err := ev.Evaluate(ctx, point.Wk)
			points[idx] = PointResult{Point: point, Coefficient: coef, Duration: time.Since(pointStart), Err: err}
			failures.SetError(err)

			mu.Lock()
			counter.Done()
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return SweepResult{
		Name:        ev.Name(),
		Target:      ev.Target(),
		Points:      points,
		Duration:    time.Since(start),
		Failures:    failures.Count(),
		Err:         failures.Err(),
		Interrupted: failures.ContextErr(),
	}
}
