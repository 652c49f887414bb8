package main

import (
	"log/slog"
	"os"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
)

// logLevels maps the CLI's -log-level spellings onto slog levels. setupLogger
// falls back to info for anything not listed here; on the CLI path
// appConfig.validate has already rejected such a spelling with an error.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func setupLogger(format, level string) *slog.Logger {
	lvl, ok := logLevels[level]
	if !ok {
		lvl = slog.LevelInfo
	}
	l := logging.New(format, lvl, os.Stderr).With("app", "gopher-vision")
	logging.Set(l)
	return l
}
