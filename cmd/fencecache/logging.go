package main

import (
	"io"
	"log/slog"
)

// newLogger returns the text logger handed to the library. Warnings (render
// failures, cache degradation) show by default; --verbose adds cache and
// timing detail, --quiet keeps errors only.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
