package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/fourcalc/pkg/models"
)

var outputReport = models.SweepReport{
	Algorithm:  "kronrod",
	Exponent:   1,
	Bound:      100,
	DurationMs: 12.5,
	Failures:   1,
	Samples: []models.Sample{
		{Period: 4, K: 0, Wk: 0, Real: 666666.6666666666, Amplitude: 666666.6666666666},
		{Period: 4, K: 1, Wk: 1.5707963267948966, Real: -2.5, Imag: 0.5, Amplitude: 2.5495097567963922},
		{Period: 4, K: 2, Wk: 3.141592653589793, Error: "did not converge"},
	},
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, outputReport); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	var comments, data []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.HasPrefix(line, "#") {
			comments = append(comments, line)
		} else {
			data = append(data, line)
		}
	}
	if !strings.Contains(strings.Join(comments, "\n"), "# f(t) = t^2 on [-100, 100]") {
		t.Errorf("header comments missing target: %v", comments)
	}

	r := csv.NewReader(strings.NewReader(strings.Join(data, "\n")))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3", len(records))
	}
	if strings.Join(records[0], ",") != "T,k,wk,real,imag,amplitude,error" {
		t.Errorf("header = %v", records[0])
	}
	if records[2][3] != "-2.5" || records[2][4] != "0.5" {
		t.Errorf("row 2 = %v", records[2])
	}
	if records[3][6] != "did not converge" {
		t.Errorf("failed row = %v", records[3])
	}
}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "sweep.csv")
	if err := WriteResultToFile(path, outputReport); err != nil {
		t.Fatalf("WriteResultToFile: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(content), "# Algorithm: kronrod") {
		t.Errorf("unexpected file content:\n%s", content)
	}

	if err := WriteResultToFile("", outputReport); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestFormatQuietSample(t *testing.T) {
	t.Parallel()
	tests := []struct {
		sample models.Sample
		want   string
	}{
		{outputReport.Samples[0], "4 0 0 666666.6666666666 666666.6666666666"},
		{outputReport.Samples[1], "4 1 1.5707963267948966 -2.5 2.5495097567963922"},
		{outputReport.Samples[2], "4 2 3.141592653589793 NaN NaN"},
	}
	for _, tt := range tests {
		if got := FormatQuietSample(tt.sample); got != tt.want {
			t.Errorf("FormatQuietSample = %q, want %q", got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	report := models.ComparisonReport{Status: "success", Sweeps: []models.SweepReport{outputReport}}
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded models.ComparisonReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Status != "success" || len(decoded.Sweeps[0].Samples) != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Sweeps[0].Samples[2].Error != "did not converge" {
		t.Error("sample error lost in JSON")
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	useNoColor(t)

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, outputReport, OutputConfig{Quiet: true}); err != nil {
			t.Fatal(err)
		}
		if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 3 {
			t.Errorf("quiet output has %d lines, want 3", len(lines))
		}
	})

	t.Run("table with plot and file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "out.csv")
		cfg := OutputConfig{Plot: true, OutputFile: path}
		if err := DisplayResultWithConfig(&buf, outputReport, cfg); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Coefficients (kronrod)", "Re(F(w_k)), T = 4", "Results saved to: " + path} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("CSV not written: %v", err)
		}
	})
}
