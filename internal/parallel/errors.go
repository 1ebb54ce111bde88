// Package parallel provides utilities for concurrent operations.
package parallel

import (
	"context"
	"errors"
	"sync"
)

// ErrorCollector gathers the failures of concurrent sweep points. It keeps
// the first error and counts every non-nil one, so a sweep can continue past
// a failing point and still report what went wrong. The first deadline or
// cancellation failure is kept apart, since it decides the outcome even when
// an ordinary failure came first. It is safe for use by
// multiple goroutines.
//
// Usage:
//
//	var ec parallel.ErrorCollector
//	g.Go(func() error {
//	    ec.SetError(evaluate(point))
//	    return nil
//	})
//	g.Wait()
//	if ec.Count() > 0 {
//	    log.Printf("%d points failed, first: %v", ec.Count(), ec.Err())
//	}
type ErrorCollector struct {
	mu         sync.Mutex
	first      error
	contextErr error
	count      int
}

// SetError records err. Nil errors are ignored; only the first non-nil
// error is kept, but all of them are counted.
//
// Parameters:
//   - err: The error to record (nil is ignored).
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.first == nil {
		c.first = err
	}
	if c.contextErr == nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		c.contextErr = err
	}
	c.count++
}

// Err returns the first recorded error, or nil if no error was recorded.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.first
}

// ContextErr returns the first recorded error caused by a deadline or a
// cancellation, or nil.
func (c *ErrorCollector) ContextErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contextErr
}

// Count returns how many non-nil errors were recorded.
func (c *ErrorCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset clears the collector for reuse.
func (c *ErrorCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.first = nil
	c.contextErr = nil
	c.count = 0
}
