// Package logging wraps log/slog behind a package-level logger that can be
// swapped at runtime without threading a *slog.Logger through every
// constructor in the pipeline.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// current holds the active logger behind an atomic pointer so concurrent
// readers (every pipeline stage calling L()) never race with Set.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(newHandler("text", slog.LevelInfo, os.Stderr)))
}

// L returns the active logger. Safe to call from any goroutine.
func L() *slog.Logger { return current.Load() }

// Set installs l as the active logger. A nil l is ignored so callers can't
// accidentally blank out logging with an unchecked constructor error.
func Set(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}

// New builds a logger for the given format ("json" selects slog.JSONHandler,
// anything else falls back to text) at the given level, writing to w (nil
// defaults to os.Stderr). Debug level also turns on source-file attribution,
// since that's the level where "which call site logged this" matters most.
func New(format string, level slog.Leveler, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(newHandler(format, level, w))
}

func newHandler(format string, level slog.Leveler, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level.Level() <= slog.LevelDebug,
	}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
