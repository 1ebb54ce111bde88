package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/fourcalc/internal/testutil"
	"github.com/agbru/fourcalc/internal/ui"
	"github.com/agbru/fourcalc/pkg/models"
)

func useNoColor(t *testing.T) {
	t.Helper()
	original := ui.GetCurrentTheme()
	ui.SetTheme("none")
	t.Cleanup(func() { ui.SetCurrentTheme(original) })
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

var tableSamples = []models.Sample{
	{Period: 4, K: 0, Wk: 0, Real: 666666.6666666666, Amplitude: 666666.6666666666},
	{Period: 4, K: 1, Wk: 1.5707963267948966, Real: -1234.5, Imag: 0, Amplitude: 1234.5},
	{Period: 8, K: 1, Wk: 0.7853981633974483, Error: "boom"},
}

func TestDisplayTable_Golden(t *testing.T) {
	useNoColor(t)

	var buf bytes.Buffer
	DisplayTable(tableSamples, &buf)

	separator := strings.Repeat("-", 70)
	expected := strings.Join([]string{
		"T         k         wk        Re(F(w_k))          |F(w_k)|",
		separator,
		"4         0         0.00000   666666.66667        666666.66667",
		"4         1         1.57080   -1234.50000         1234.50000",
		separator,
		"8         1         0.78540   integration failed: boom",
		separator,
		"",
	}, "\n")

	if got := trimLines(buf.String()); got != expected {
		t.Errorf("table mismatch.\nWant:\n%s\nGot:\n%s", expected, got)
	}
}

func TestDisplayTable_Colored(t *testing.T) {
	original := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(original)
	ui.SetCurrentTheme(ui.DarkTheme)

	var buf bytes.Buffer
	DisplayTable(tableSamples[:2], &buf)
	if !strings.Contains(buf.String(), ui.DarkTheme.Negative) {
		t.Error("negative real parts should use the negative color")
	}
	if !strings.Contains(testutil.StripAnsiCodes(buf.String()), "-1234.50000") {
		t.Error("value missing once colors are stripped")
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0.00000"},
		{-1.5, "-1.50000"},
		{666666.6666666666, "666666.66667"},
		{2.5e13, "2.500000e+13"},
		{-3e15, "-3.000000e+15"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue(%g) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestDisplaySummaries(t *testing.T) {
	useNoColor(t)

	var buf bytes.Buffer
	DisplaySummaries(nil, &buf)
	if buf.Len() != 0 {
		t.Errorf("no summaries should print nothing, got %q", buf.String())
	}

	DisplaySummaries([]models.PeriodSummary{
		{Period: 4, PeakK: 0, PeakAmplitude: 10, MeanAmplitude: 2.5},
		{Period: 8, PeakK: 3, PeakAmplitude: 1, MeanAmplitude: 0.5, Failures: 2},
	}, &buf)
	out := buf.String()
	for _, want := range []string{"Spectrum summary", "peak at k = 0", "mean |F| = 2.50000", "2 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}
