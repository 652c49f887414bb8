package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/gopher-motorsports/gopher-vision/internal/ingest"
	"github.com/gopher-motorsports/gopher-vision/internal/live"
	"github.com/gopher-motorsports/gopher-vision/internal/metrics"
	"github.com/gopher-motorsports/gopher-vision/internal/pipeline"
)

func main() {
	cfg, showVersion, err := parseFlags(os.Args[1:])
	if showVersion {
		fmt.Printf("gopher-vision %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	l := setupLogger(cfg.logFormat, cfg.logLevel)
	l.Info("build_info", "version", version, "commit", commit, "date", date)

	switch cfg.cmd {
	case "convert":
		os.Exit(runConvert(cfg, l))
	case "synth":
		os.Exit(runSynth(cfg, l))
	case "serve":
		runServe(cfg, l)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", cfg.cmd)
		os.Exit(2)
	}
}

// runServe wires the live-ingest path: serial read -> pipeline -> live hub,
// serving the latest-value feed over a websocket until an interrupt signal.
func runServe(cfg *appConfig, l *slog.Logger) {
	sch, err := loadSchema(cfg.schemaPath)
	if err != nil {
		l.Error("schema_load_failed", "error", err)
		os.Exit(1)
	}

	port, err := openSerialPort(cfg.serialDev, cfg.baud, cfg.serialReadTO)
	if err != nil {
		l.Error("serial_open_failed", "error", err)
		os.Exit(1)
	}
	defer port.Close()
	l.Info("serial_open", "device", cfg.serialDev, "baud", cfg.baud)

	hub := live.NewHub()
	hub.OutBufSize = cfg.liveBuffer
	switch cfg.livePolicy {
	case "kick":
		hub.Policy = live.PolicyKick
	default:
		hub.Policy = live.PolicyDrop
	}

	p := pipeline.New(sch)
	p.OnSample = func(id uint16, _ uint32, v float64) {
		hub.Broadcast(live.Update{ID: id, V: v})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	go ingest.Run(ctx, port, p, &wg)

	liveSrv := live.NewServer(hub, live.WithLogger(l))
	mux := http.NewServeMux()
	mux.Handle("/live", liveSrv)
	httpSrv := &http.Server{Addr: cfg.listenAddr, Handler: mux}
	readyCh := make(chan struct{})
	go func() {
		ln, err := net.Listen("tcp", cfg.listenAddr)
		if err != nil {
			l.Error("live_listen_failed", "error", err)
			cancel()
			return
		}
		close(readyCh)
		l.Info("live_listen", "addr", ln.Addr().String())
		if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.Error("live_http_error", "error", err)
		}
	}()

	go func() {
		if !cfg.mdnsEnable {
			return
		}
		select {
		case <-readyCh:
		case <-ctx.Done():
			return
		}
		portNum := portFromAddr(cfg.listenAddr)
		cleanup, err := startMDNS(ctx, cfg, portNum)
		if err != nil {
			l.Warn("mdns_start_failed", "error", err)
			return
		}
		l.Info("mdns_started", "service", mdnsServiceType, "port", portNum)
		go func() { <-ctx.Done(); cleanup() }()
	}()

	metrics.SetReadinessFunc(func() bool {
		select {
		case <-readyCh:
			return ctx.Err() == nil
		default:
			return false
		}
	})
	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		metricsSrv := metrics.StartHTTP(cfg.metricsAddr)
		defer func() { _ = metricsSrv.Shutdown(context.Background()) }()
	}
	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())
	cancel()
	_ = httpSrv.Shutdown(context.Background())
	wg.Wait()
}

func portFromAddr(addr string) int {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		if pn, err := strconv.Atoi(p); err == nil {
			return pn
		}
	}
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		if pn, err := strconv.Atoi(addr[i+1:]); err == nil {
			return pn
		}
	}
	return 0
}
