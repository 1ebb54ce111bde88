// Command fourcalc sweeps the truncated Fourier coefficients of
// f(t) = t^(2n) over a grid of candidate periods and harmonics.
package main

import (
	"context"
	"os"

	"github.com/agbru/fourcalc/internal/app"
	apperrors "github.com/agbru/fourcalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
