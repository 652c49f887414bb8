package main

import (
	"fmt"
	"os"

	"github.com/gopher-motorsports/gopher-vision/internal/schema"
	"gopkg.in/yaml.v3"
)

// yamlDoc mirrors the GopherCAN parameter dictionary's on-disk shape: a
// top-level "parameters" map keyed by an arbitrary config name, each value
// giving id/type/motec_name/unit (original_source/go4v.py's load_config).
type yamlDoc struct {
	Parameters map[string]yamlParam `yaml:"parameters"`
}

type yamlParam struct {
	ID        *uint16 `yaml:"id"`
	Type      string  `yaml:"type"`
	MotecName string  `yaml:"motec_name"`
	Unit      string  `yaml:"unit"`
}

// loadSchema reads and parses a GopherCAN-style parameter dictionary YAML
// file into a built schema.Schema.
func loadSchema(path string) (*schema.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", path, err)
	}

	entries := make([]schema.RawEntry, 0, len(doc.Parameters))
	for _, p := range doc.Parameters {
		e := schema.RawEntry{
			Type:      p.Type,
			MotecName: p.MotecName,
			Unit:      p.Unit,
		}
		if p.ID != nil {
			e.ID = *p.ID
			e.HasID = true
		}
		entries = append(entries, e)
	}
	return schema.Build(entries), nil
}
