package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agbru/fourcalc/internal/fourier"
)

// GoldenData represents a single test case in the golden file
type GoldenData struct {
	N      int     `json:"n"`
	Period float64 `json:"period"`
	K      int     `json:"k"`
	Wk     float64 `json:"wk"`
	Real   float64 `json:"real"`
	Imag   float64 `json:"imag"`
}

var periods = []float64{4, 8, 16, 32, 64, 128}

func main() {
	outputDir := flag.String("out", "internal/fourier/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "coefficients_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// The closed form is the oracle:
	// - n = 1 over the full default grid
	// - n = 2 at the edges of the grid, where t^4 stresses the rules most
	var data []GoldenData

	fmt.Println("Generating golden data...")

	for _, period := range periods {
		for k := 0; k <= 20; k++ {
			data = append(data, golden(1, period, k))
		}
	}
	for _, period := range []float64{4, 128} {
		for _, k := range []int{0, 1, 5, 20} {
			data = append(data, golden(2, period, k))
		}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated %d golden coefficients at %s\n", len(data), filename)
}

func golden(n int, period float64, k int) GoldenData {
	wk := fourier.AngularFrequency(period, k)
	coef := fourier.ClosedForm(fourier.Target{Exponent: n}, wk)
	return GoldenData{N: n, Period: period, K: k, Wk: wk, Real: coef.Real, Imag: coef.Imag}
}
