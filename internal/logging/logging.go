// Package logging sets up printctl-node's structured logger, grounded on
// malbeclabs-doublezero's tint-backed slog setup.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a slog.Logger writing human-readable, colorized lines to
// stderr. verbose lowers the level to Debug.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
}
