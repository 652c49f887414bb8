package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gopher-motorsports/gopher-vision/internal/metrics"
)

// startMetricsLogger periodically logs the local counter snapshot, for
// deployments without a Prometheus scraper.
func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"packets_decoded", snap.PacketsDecoded,
					"frame_errors", snap.FrameErrors,
					"checksum_failures", snap.ChecksumFailures,
					"channels_dropped", snap.ChannelsDropped,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
