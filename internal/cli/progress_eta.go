// Package cli provides progress tracking with ETA estimation.
package cli

import (
	"fmt"
	"time"
)

const (
	// etaWarmup is the minimum elapsed time before an ETA is attempted.
	etaWarmup = 100 * time.Millisecond
	// etaMinSample is the minimum gap between two rate samples.
	etaMinSample = 50 * time.Millisecond
	// etaSmoothing is the weight of the previous rate in the moving average.
	etaSmoothing = 0.7
	// etaCap bounds the reported estimate.
	etaCap = 24 * time.Hour
)

// ProgressWithETA extends ProgressState with a smoothed completion rate
// from which the remaining time of the sweeps is estimated.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastSample   time.Time
	lastProgress float64
	rate         float64 // progress per second, exponentially smoothed
}

// NewProgressWithETA creates a new progress tracker for numSweeps sweeps.
func NewProgressWithETA(numSweeps int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numSweeps),
		startTime:     now,
		lastSample:    now,
	}
}

// UpdateWithETA records the progress of sweep index and refreshes the rate
// estimate.
//
// Parameters:
//   - index: The index of the sweep (0 to numSweeps-1).
//   - value: The new progress value (0.0 to 1.0).
//
// Returns:
//   - progress: The current average progress (0.0 to 1.0).
//   - eta: The estimated time remaining, or 0 while no estimate exists.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (progress float64, eta time.Duration) {
	p.Update(index, value)
	progress = p.CalculateAverage()

	now := time.Now()
	elapsed := now.Sub(p.startTime)
	if elapsed < etaWarmup || progress <= 0.001 {
		p.lastSample = now
		p.lastProgress = progress
		return progress, 0
	}

	if gap := now.Sub(p.lastSample); gap > etaMinSample {
		if delta := progress - p.lastProgress; delta > 0 {
			instant := delta / gap.Seconds()
			if p.rate > 0 {
				p.rate = etaSmoothing*p.rate + (1-etaSmoothing)*instant
			} else {
				p.rate = progress / elapsed.Seconds()
			}
		}
		p.lastSample = now
		p.lastProgress = progress
	}

	return progress, p.remaining(progress)
}

// GetETA returns the current estimate without recording progress.
func (p *ProgressWithETA) GetETA() time.Duration {
	return p.remaining(p.CalculateAverage())
}

func (p *ProgressWithETA) remaining(progress float64) time.Duration {
	if p.rate <= 0 || progress >= 1.0 {
		return 0
	}
	eta := time.Duration((1.0 - progress) / p.rate * float64(time.Second))
	if eta > etaCap {
		eta = etaCap
	}
	return eta
}

// FormatETA formats a duration into a short human-readable ETA string such
// as "< 1s", "42s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "estimating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		minutes := int(eta.Minutes())
		if seconds := int(eta.Seconds()) % 60; seconds > 0 {
			return fmt.Sprintf("%dm%ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	hours := int(eta.Hours())
	if minutes := int(eta.Minutes()) % 60; minutes > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}

// FormatProgressBarWithETA combines the percentage, the bar and the ETA,
// e.g. "45.00% [████░░░░] ETA: 2m30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", progress*100, progressBar(progress, width), FormatETA(eta))
}
