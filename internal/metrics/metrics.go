// Package metrics exposes Prometheus counters/gauges for the ingest and
// conversion pipeline, plus an HTTP /metrics and /ready endpoint — the same
// promauto-based shape the teacher used for its CAN gateway, re-themed for
// GDAT ingestion and LD export.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PacketsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gdat_packets_decoded_total",
		Help: "Total GDAT packets successfully decoded.",
	})
	FrameErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gdat_frame_errors_total",
		Help: "Total packets discarded for being shorter than the minimum packet length.",
	})
	ChecksumFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gdat_checksum_failures_total",
		Help: "Total packets discarded for checksum mismatch.",
	})
	SchemaMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gdat_schema_misses_total",
		Help: "Total packets discarded for referencing an unknown parameter id.",
	})
	PayloadSizeMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gdat_payload_size_mismatch_total",
		Help: "Total packets discarded for payload length not matching the schema.",
	})
	ChannelsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "channels_dropped_total",
		Help: "Total channels dropped for scale-solver failure.",
	})
	ChannelsWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ld_channels_written",
		Help: "Number of channels written by the most recent LD export.",
	})
	BytesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gdat_bytes_ingested_total",
		Help: "Total raw bytes read from the GDAT byte stream.",
	})
	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "live_clients",
		Help: "Current number of connected live-feed viewers.",
	})
	LiveDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "live_dropped_updates_total",
		Help: "Total live-feed updates dropped due to a slow viewer.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Local mirrored counters for cheap periodic logging (avoids an in-process
// Prometheus scrape just to print a summary line).
var (
	localPackets  uint64
	localFrameErr uint64
	localCksumErr uint64
	localDropped  uint64
)

// Snapshot is a cheap copy of the local counters.
type Snapshot struct {
	PacketsDecoded   uint64
	FrameErrors      uint64
	ChecksumFailures uint64
	ChannelsDropped  uint64
}

func Snap() Snapshot {
	return Snapshot{
		PacketsDecoded:   atomic.LoadUint64(&localPackets),
		FrameErrors:      atomic.LoadUint64(&localFrameErr),
		ChecksumFailures: atomic.LoadUint64(&localCksumErr),
		ChannelsDropped:  atomic.LoadUint64(&localDropped),
	}
}

func IncPacketsDecoded()  { PacketsDecoded.Inc(); atomic.AddUint64(&localPackets, 1) }
func IncFrameError()      { FrameErrors.Inc(); atomic.AddUint64(&localFrameErr, 1) }
func IncChecksumFail()    { ChecksumFailures.Inc(); atomic.AddUint64(&localCksumErr, 1) }
func IncSchemaMiss()      { SchemaMisses.Inc() }
func IncPayloadMismatch() { PayloadSizeMismatches.Inc() }
func IncChannelDropped()  { ChannelsDropped.Inc(); atomic.AddUint64(&localDropped, 1) }
func AddBytesIngested(n int) {
	if n > 0 {
		BytesIngested.Add(float64(n))
	}
}
func SetChannelsWritten(n int) { ChannelsWritten.Set(float64(n)) }
func SetLiveClients(n int)     { LiveClients.Set(float64(n)) }
func IncLiveDropped()          { LiveDropped.Inc() }

// InitBuildInfo sets the build info gauge (called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

// StartHTTP serves Prometheus metrics at /metrics and readiness at /ready.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}
