// Package fourier evaluates truncated Fourier coefficients by quadrature.
// This file contains progress reporting types shared by the sweep and its
// observers.
package fourier

// ProgressUpdate is a data transfer object carrying the progress of one
// sweep from the worker pool to the user interface.
type ProgressUpdate struct {
	// SweepIndex identifies the sweep (one per quadrature rule) so that the
	// UI can aggregate concurrent sweeps.
	SweepIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the functional callback through which a sweep
// reports its normalized progress.
type ProgressReporter func(progress float64)

// ProgressReportThreshold is the minimum progress change between two
// reports, except for the first and last points.
const ProgressReportThreshold = 0.01

// PointCounter turns completed sample counts into throttled progress
// reports. It is not safe for concurrent use; callers serialize Done.
type PointCounter struct {
	reporter     ProgressReporter
	total        int
	done         int
	lastReported float64
}

// NewPointCounter returns a counter for total samples reporting to r.
func NewPointCounter(r ProgressReporter, total int) *PointCounter {
	if r == nil {
		r = func(float64) {}
	}
	return &PointCounter{reporter: r, total: total}
}

// Done records one completed sample and reports if the change is
// significant or the sweep is complete.
func (c *PointCounter) Done() {
	c.done++
	if c.total <= 0 {
		return
	}
	progress := float64(c.done) / float64(c.total)
	if progress-c.lastReported >= ProgressReportThreshold || c.done == 1 || c.done >= c.total {
		c.reporter(progress)
		c.lastReported = progress
	}
}

// Completed returns the number of samples recorded so far.
func (c *PointCounter) Completed() int { return c.done }
