package testutil

import (
	"math"
	"testing"
)

func TestStripAnsiCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, in, want string
	}{
		{"colors", "\x1b[1mT\x1b[0m \x1b[38;5;82mok\x1b[0m", "T ok"},
		{"spinner cursor", "\x1b[?25l\r\x1b[Kwk = 1.3\x1b[?25h", "\rwk = 1.3"},
		{"plain", "Re = 1.7482e+12 [x]", "Re = 1.7482e+12 [x]"},
	}
	for _, tt := range tests {
		if got := StripAnsiCodes(tt.in); got != tt.want {
			t.Errorf("%s: StripAnsiCodes(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestWithinTolerance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		got, want, abs, rel float64
		expected            bool
	}{
		{1.0, 1.0, 0, 0, true},
		{1.0 + 1e-10, 1.0, 1e-9, 0, true},
		{1.1, 1.0, 0, 0.2, true},
		{1.3, 1.0, 0, 0.2, false},
		{-5, 5, 1, 0, false},
		{math.NaN(), 0, 1, 1, false},
	}
	for _, tt := range tests {
		if got := WithinTolerance(tt.got, tt.want, tt.abs, tt.rel); got != tt.expected {
			t.Errorf("WithinTolerance(%g, %g, %g, %g) = %v, want %v", tt.got, tt.want, tt.abs, tt.rel, got, tt.expected)
		}
	}
}
