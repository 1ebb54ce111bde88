package testutil

import (
	"math"
	"testing"
)

// WithinTolerance reports whether got is within abs + rel·|want| of want.
// NaN never matches.
func WithinTolerance(got, want, abs, rel float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}
	return math.Abs(got-want) <= abs+rel*math.Abs(want)
}

// AssertClose fails the test when got is not within abs + rel·|want| of
// want.
//
// Parameters:
//   - tb: The test or benchmark.
//   - name: A label for the compared quantity.
//   - got, want: The observed and expected values.
//   - abs, rel: The absolute and relative tolerances.
func AssertClose(tb testing.TB, name string, got, want, abs, rel float64) {
	tb.Helper()
	if !WithinTolerance(got, want, abs, rel) {
		tb.Errorf("%s = %.12g, want %.12g (abs %g, rel %g)", name, got, want, abs, rel)
	}
}
