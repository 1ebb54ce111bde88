// Package cli provides command-line interface components for the Fourier
// coefficient calculator.
// This file provides a color provider implementation for use with the errors package.
package cli

import (
	apperrors "github.com/agbru/fourcalc/internal/errors"
	"github.com/agbru/fourcalc/internal/ui"
)

// Ensure CLIColorProvider implements apperrors.ColorProvider at compile time.
var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider implements apperrors.ColorProvider with the current UI
// theme, so that sweep failures reported by the orchestration layer are
// colored like the rest of the output.
type CLIColorProvider struct{}

// Yellow returns the warning color of the current theme.
func (c CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the reset code of the current theme.
func (c CLIColorProvider) Reset() string { return ui.ColorReset() }
