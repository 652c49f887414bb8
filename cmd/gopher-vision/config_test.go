package main

import (
	"testing"
	"time"
)

func TestConfigValidate_OK(t *testing.T) {
	tests := []struct {
		name string
		cfg  *appConfig
	}{
		{"serve", &appConfig{
			cmd: "serve", serialDev: "/dev/null", baud: 115200, serialReadTO: 10 * time.Millisecond,
			listenAddr: ":8088", liveBuffer: 64, livePolicy: "drop",
			schemaPath: "schema.yaml", logFormat: "text", logLevel: "info",
		}},
		{"convert", &appConfig{
			cmd: "convert", schemaPath: "schema.yaml", inputPath: "in.gdat", outputPath: "out.ld",
			logFormat: "json", logLevel: "debug",
		}},
		{"synth", &appConfig{
			cmd: "synth", synthOut: "out.gdat", synthCount: 100,
			logFormat: "text", logLevel: "warn",
		}},
	}
	for _, tc := range tests {
		if err := tc.cfg.validate(); err != nil {
			t.Fatalf("%s: expected ok, got %v", tc.name, err)
		}
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	base := func() *appConfig {
		return &appConfig{
			cmd: "serve", serialDev: "/dev/null", baud: 115200, serialReadTO: 10 * time.Millisecond,
			listenAddr: ":8088", liveBuffer: 64, livePolicy: "drop",
			schemaPath: "schema.yaml", logFormat: "text", logLevel: "info",
		}
	}
	tests := []struct {
		name string
		mod  func(*appConfig)
	}{
		{"badFormat", func(c *appConfig) { c.logFormat = "xx" }},
		{"badLevel", func(c *appConfig) { c.logLevel = "nope" }},
		{"badCmd", func(c *appConfig) { c.cmd = "bogus" }},
		{"serveMissingSchema", func(c *appConfig) { c.schemaPath = "" }},
		{"serveBadBaud", func(c *appConfig) { c.baud = 0 }},
		{"serveBadReadTO", func(c *appConfig) { c.serialReadTO = 0 }},
		{"serveBadLivePolicy", func(c *appConfig) { c.livePolicy = "x" }},
		{"serveBadLiveBuffer", func(c *appConfig) { c.liveBuffer = 0 }},
	}
	for _, tc := range tests {
		c := base()
		tc.mod(c)
		if err := c.validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	convertTests := []struct {
		name string
		cfg  *appConfig
	}{
		{"missingSchema", &appConfig{cmd: "convert", inputPath: "in.gdat", outputPath: "out.ld", logFormat: "text", logLevel: "info"}},
		{"missingInput", &appConfig{cmd: "convert", schemaPath: "s.yaml", outputPath: "out.ld", logFormat: "text", logLevel: "info"}},
		{"missingOutput", &appConfig{cmd: "convert", schemaPath: "s.yaml", inputPath: "in.gdat", logFormat: "text", logLevel: "info"}},
	}
	for _, tc := range convertTests {
		if err := tc.cfg.validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	synthTests := []struct {
		name string
		cfg  *appConfig
	}{
		{"missingOut", &appConfig{cmd: "synth", synthCount: 10, logFormat: "text", logLevel: "info"}},
		{"badCount", &appConfig{cmd: "synth", synthOut: "out.gdat", synthCount: 0, logFormat: "text", logLevel: "info"}},
	}
	for _, tc := range synthTests {
		if err := tc.cfg.validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
