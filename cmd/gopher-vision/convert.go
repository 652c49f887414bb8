package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gopher-motorsports/gopher-vision/internal/frame"
	"github.com/gopher-motorsports/gopher-vision/internal/ldformat"
	"github.com/gopher-motorsports/gopher-vision/internal/pipeline"
	"github.com/gopher-motorsports/gopher-vision/internal/preamble"
)

// Exit codes, spec.md §6 "CLI surface".
const (
	exitOK                 = 0
	exitSchemaInvalid      = 1
	exitInputInvalid       = 2
	exitOutputRefused      = 3
	exitAllChannelsDropped = 4
)

// runConvert performs the offline .gdat -> .ld conversion and returns the
// process exit code.
func runConvert(cfg *appConfig, l *slog.Logger) int {
	sch, err := loadSchema(cfg.schemaPath)
	if err != nil {
		l.Error("schema_load_failed", "error", err)
		return exitSchemaInvalid
	}
	if sch.Len() == 0 {
		l.Error("schema_empty", "path", cfg.schemaPath)
		return exitSchemaInvalid
	}

	if filepath.Ext(cfg.inputPath) != ".gdat" {
		l.Error("input_bad_suffix", "path", cfg.inputPath)
		return exitInputInvalid
	}
	raw, err := os.ReadFile(cfg.inputPath)
	if err != nil {
		l.Error("input_read_failed", "error", err)
		return exitInputInvalid
	}

	if !cfg.force {
		if _, err := os.Stat(cfg.outputPath); err == nil {
			l.Error("output_exists", "path", cfg.outputPath, "hint", "pass -force to overwrite")
			return exitOutputRefused
		}
	}

	preambleLine, body := splitPreamble(raw)
	t0 := preamble.GetT0(preambleLine)

	p := pipeline.New(sch)
	p.Feed(body)
	p.Flush()

	out, err := os.Create(cfg.outputPath)
	if err != nil {
		l.Error("output_create_failed", "error", err)
		return exitOutputRefused
	}
	defer out.Close()

	sess := ldformat.Session{T0: t0, SessionName: filepath.Base(cfg.inputPath)}
	var written []ldformat.Channel
	result, err := pipeline.Convert(p, sess, func(channels []ldformat.Channel) error {
		written = channels
		return ldformat.Write(out, sess, channels)
	})
	if err != nil {
		l.Error("convert_failed", "error", err)
		return exitAllChannelsDropped
	}

	for _, ch := range written {
		l.Info("channel_summary",
			"name", ch.Name,
			"unit", ch.Unit,
			"points", len(ch.Samples),
			"hz", ch.SampleRate,
			"shift", ch.Shift,
			"scalar", ch.Scalar,
			"divisor", ch.Divisor,
		)
	}

	l.Info("convert_complete",
		"input", cfg.inputPath,
		"output", cfg.outputPath,
		"channels_written", result.ChannelsWritten,
		"channels_dropped", result.ChannelsDropped,
	)
	return exitOK
}

// splitPreamble separates the ASCII preamble line from the binary packet
// stream that follows it: the preamble ends where the first frame start
// delimiter appears (spec.md §6).
func splitPreamble(raw []byte) (line string, body []byte) {
	idx := bytes.IndexByte(raw, frame.SD)
	if idx < 0 {
		return string(raw), nil
	}
	return string(raw[:idx]), raw[idx:]
}
