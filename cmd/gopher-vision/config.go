package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type appConfig struct {
	cmd string // "serve" | "convert" | "synth"

	// serve
	serialDev    string
	baud         int
	serialReadTO time.Duration
	listenAddr   string
	liveBuffer   int
	livePolicy   string
	mdnsEnable   bool
	mdnsName     string

	// convert
	schemaPath string
	inputPath  string
	outputPath string
	force      bool

	// synth
	synthOut   string
	synthCount int

	// ambient
	logFormat       string
	logLevel        string
	metricsAddr     string
	logMetricsEvery time.Duration
}

func parseFlags(args []string) (*appConfig, bool, error) {
	if len(args) == 0 {
		return nil, false, errors.New("missing subcommand: serve|convert|synth")
	}
	cfg := &appConfig{cmd: args[0]}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	serialDev := fs.String("serial", "/dev/ttyUSB0", "Serial device path")
	baud := fs.Int("baud", 115200, "Serial baud rate")
	serialReadTO := fs.Duration("serial-read-timeout", 50*time.Millisecond, "Serial read timeout")
	listen := fs.String("listen", ":8088", "Live-feed websocket listen address")
	liveBuf := fs.Int("live-buffer", 64, "Per-client live-feed buffer (updates)")
	livePolicy := fs.String("live-policy", "drop", "Backpressure policy: drop|kick")
	mdnsEnable := fs.Bool("mdns-enable", false, "Enable mDNS advertisement")
	mdnsName := fs.String("mdns-name", "", "mDNS instance name (default gopher-vision-<hostname>)")

	schemaPath := fs.String("schema", "", "Path to the parameter schema YAML")
	inputPath := fs.String("input", "", "Path to the .gdat input file (convert)")
	outputPath := fs.String("output", "", "Path to the .ld output file (convert)")
	force := fs.Bool("force", false, "Overwrite an existing output file")

	synthOut := fs.String("out", "", "Path to write a synthetic .gdat stream (synth)")
	synthCount := fs.Int("count", 1000, "Number of synthetic packets to emit (synth)")

	logFormat := fs.String("log-format", "text", "Log format: text|json")
	logLevel := fs.String("log-level", "info", "Log level: debug|info|warn|error")
	metricsAddr := fs.String("metrics-addr", "", "Metrics HTTP listen address; empty disables")
	logMetricsEvery := fs.Duration("log-metrics-interval", 0, "If >0, periodically log metrics counters")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, false, err
	}

	setFlags := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })

	cfg.serialDev = *serialDev
	cfg.baud = *baud
	cfg.serialReadTO = *serialReadTO
	cfg.listenAddr = *listen
	cfg.liveBuffer = *liveBuf
	cfg.livePolicy = *livePolicy
	cfg.mdnsEnable = *mdnsEnable
	cfg.mdnsName = *mdnsName
	cfg.schemaPath = *schemaPath
	cfg.inputPath = *inputPath
	cfg.outputPath = *outputPath
	cfg.force = *force
	cfg.synthOut = *synthOut
	cfg.synthCount = *synthCount
	cfg.logFormat = *logFormat
	cfg.logLevel = *logLevel
	cfg.metricsAddr = *metricsAddr
	cfg.logMetricsEvery = *logMetricsEvery

	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		return nil, *showVersion, err
	}
	if *showVersion {
		return cfg, true, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

func (c *appConfig) validate() error {
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	switch c.cmd {
	case "serve":
		if c.schemaPath == "" {
			return errors.New("serve requires -schema")
		}
		if c.baud <= 0 {
			return fmt.Errorf("baud must be > 0 (got %d)", c.baud)
		}
		if c.serialReadTO <= 0 {
			return errors.New("serial-read-timeout must be > 0")
		}
		switch c.livePolicy {
		case "drop", "kick":
		default:
			return fmt.Errorf("invalid live-policy: %s", c.livePolicy)
		}
		if c.liveBuffer <= 0 {
			return fmt.Errorf("live-buffer must be > 0 (got %d)", c.liveBuffer)
		}
	case "convert":
		if c.schemaPath == "" {
			return errors.New("convert requires -schema")
		}
		if c.inputPath == "" {
			return errors.New("convert requires -input")
		}
		if c.outputPath == "" {
			return errors.New("convert requires -output")
		}
	case "synth":
		if c.synthOut == "" {
			return errors.New("synth requires -out")
		}
		if c.synthCount <= 0 {
			return fmt.Errorf("count must be > 0 (got %d)", c.synthCount)
		}
	default:
		return fmt.Errorf("unknown subcommand: %s", c.cmd)
	}
	return nil
}

// applyEnvOverrides maps GOPHER_VISION_* environment variables onto config
// fields unless the corresponding flag was explicitly set.
func applyEnvOverrides(c *appConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }

	if _, ok := set["serial"]; !ok {
		if v, ok := get("GOPHER_VISION_SERIAL"); ok && v != "" {
			c.serialDev = v
		}
	}
	if _, ok := set["baud"]; !ok {
		if v, ok := get("GOPHER_VISION_BAUD"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.baud = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid GOPHER_VISION_BAUD: %w", err)
			}
		}
	}
	if _, ok := set["listen"]; !ok {
		if v, ok := get("GOPHER_VISION_LISTEN"); ok && v != "" {
			c.listenAddr = v
		}
	}
	if _, ok := set["schema"]; !ok {
		if v, ok := get("GOPHER_VISION_SCHEMA"); ok && v != "" {
			c.schemaPath = v
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("GOPHER_VISION_LOG_FORMAT"); ok && v != "" {
			c.logFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("GOPHER_VISION_LOG_LEVEL"); ok && v != "" {
			c.logLevel = v
		}
	}
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("GOPHER_VISION_METRICS"); ok {
			c.metricsAddr = v
		}
	}
	if _, ok := set["live-buffer"]; !ok {
		if v, ok := get("GOPHER_VISION_LIVE_BUFFER"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.liveBuffer = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid GOPHER_VISION_LIVE_BUFFER: %w", err)
			}
		}
	}
	if _, ok := set["live-policy"]; !ok {
		if v, ok := get("GOPHER_VISION_LIVE_POLICY"); ok && v != "" {
			c.livePolicy = v
		}
	}
	if _, ok := set["mdns-enable"]; !ok {
		if v, ok := get("GOPHER_VISION_MDNS_ENABLE"); ok && v != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "on":
				c.mdnsEnable = true
			case "0", "false", "no", "off":
				c.mdnsEnable = false
			}
		}
	}
	if _, ok := set["mdns-name"]; !ok {
		if v, ok := get("GOPHER_VISION_MDNS_NAME"); ok && v != "" {
			c.mdnsName = v
		}
	}
	if _, ok := set["log-metrics-interval"]; !ok {
		if v, ok := get("GOPHER_VISION_LOG_METRICS_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				c.logMetricsEvery = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid GOPHER_VISION_LOG_METRICS_INTERVAL: %w", err)
			}
		}
	}
	return firstErr
}
