package main

import (
	"bufio"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gopher-motorsports/gopher-vision/internal/frame"
)

// runSynth emits a synthetic GDAT byte stream (preamble + a sinusoidal F32
// channel on parameter id 1) useful for exercising the decode/resample/
// scale/ldformat pipeline without a real logger attached.
func runSynth(cfg *appConfig, l *slog.Logger) int {
	f, err := os.Create(cfg.synthOut)
	if err != nil {
		l.Error("synth_create_failed", "error", err)
		return exitOutputRefused
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	preambleLine := "/PLM_" + time.Now().UTC().Format("2006-01-02-15-04-05") + ".gdat:"
	if _, err := w.WriteString(preambleLine); err != nil {
		l.Error("synth_write_failed", "error", err)
		return exitOutputRefused
	}

	const deltaMS = 10
	for i := 0; i < cfg.synthCount; i++ {
		ts := uint32(i * deltaMS)
		v := float32(100*math.Sin(float64(i)*0.05) + 1000)
		payload := float32Bytes(v)
		wire := frame.EncodeWire(ts, 1, payload)
		if _, err := w.Write(wire); err != nil {
			l.Error("synth_write_failed", "error", err)
			return exitOutputRefused
		}
	}

	l.Info("synth_complete", "path", cfg.synthOut, "packets", cfg.synthCount)
	return exitOK
}

func float32Bytes(v float32) []byte {
	bits := math.Float32bits(v)
	return []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
}
