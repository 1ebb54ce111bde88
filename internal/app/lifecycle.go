package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// SetupLifecycle returns a context canceled when the timeout expires or
// when SIGINT or SIGTERM is received, whichever happens first. A
// non-positive timeout disables the deadline.
//
// Parameters:
//   - ctx: The parent context.
//   - timeout: The maximum duration for the sweep.
//
// Returns:
//   - context.Context: A context with both timeout and signal handling.
//   - *CancelFuncs: The cleanup functions; defer Cleanup.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *CancelFuncs) {
	funcs := &CancelFuncs{}
	if timeout > 0 {
		ctx, funcs.CancelTimeout = context.WithTimeout(ctx, timeout)
	}
	ctx, funcs.StopSignals = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, funcs
}

// CancelFuncs holds the cancel functions for lifecycle management.
type CancelFuncs struct {
	// CancelTimeout cancels the timeout context; nil without a deadline.
	CancelTimeout context.CancelFunc
	// StopSignals stops listening for OS signals.
	StopSignals context.CancelFunc
}

// Cleanup releases the signal handler, then the deadline.
func (c *CancelFuncs) Cleanup() {
	if c.StopSignals != nil {
		c.StopSignals()
	}
	if c.CancelTimeout != nil {
		c.CancelTimeout()
	}
}
