// Package schema holds the parameter dictionary (id -> name/unit/wire type)
// that the rest of the pipeline decodes packets against.
//
// Building the dictionary from a YAML document lives outside this package
// (in cmd/gopher-vision) — Build here accepts an already-parsed document,
// same as the rest of the pipeline never imports a YAML library directly.
package schema

import (
	"fmt"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
)

// WireType identifies how a parameter's payload bytes are decoded.
type WireType int

const (
	WireUnknown WireType = iota
	U8
	U16
	U32
	U64
	S8
	S16
	S32
	S64
	F32
)

// typeInfo describes the on-wire shape of a WireType.
type typeInfo struct {
	size   int
	signed bool
}

var typeTable = map[WireType]typeInfo{
	U8:  {size: 1, signed: false},
	U16: {size: 2, signed: false},
	U32: {size: 4, signed: false},
	U64: {size: 8, signed: false},
	S8:  {size: 1, signed: true},
	S16: {size: 2, signed: true},
	S32: {size: 4, signed: true},
	S64: {size: 8, signed: true},
	F32: {size: 4, signed: false},
}

// aliases maps the GopherCAN config's historical type spellings onto WireType
// (see original_source/go4v.py's `types` table) so schema documents authored
// for the Python tooling keep working unmodified.
var aliases = map[string]WireType{
	"U8": U8, "UNSIGNED8": U8,
	"U16": U16, "UNSIGNED16": U16,
	"U32": U32, "UNSIGNED32": U32,
	"U64": U64, "UNSIGNED64": U64,
	"S8": S8, "SIGNED8": S8,
	"S16": S16, "SIGNED16": S16,
	"S32": S32, "SIGNED32": S32,
	"S64": S64, "SIGNED64": S64,
	"F32": F32, "FLOATING": F32, "FLOAT32": F32,
}

// ParseWireType resolves a schema document's type spelling to a WireType.
// It returns WireUnknown, false for anything not in the alias table.
func ParseWireType(s string) (WireType, bool) {
	t, ok := aliases[s]
	return t, ok
}

// Size returns the wire size in bytes for t, or 0 if t is unrecognized.
func (t WireType) Size() int { return typeTable[t].size }

// Signed reports whether t decodes as a signed integer (false for F32/unsigned).
func (t WireType) Signed() bool { return typeTable[t].signed }

func (t WireType) String() string {
	for name, wt := range map[string]WireType{"U8": U8, "U16": U16, "U32": U32, "U64": U64, "S8": S8, "S16": S16, "S32": S32, "S64": S64, "F32": F32} {
		if wt == t {
			return name
		}
	}
	return "UNKNOWN"
}

// Parameter is one entry of the parameter dictionary, immutable after load.
type Parameter struct {
	ID       uint16
	Name     string
	Unit     string
	WireType WireType
}

// Size is the wire payload size in bytes for this parameter's type.
func (p Parameter) Size() int { return p.WireType.Size() }

// Signed reports whether this parameter's integer type is signed.
func (p Parameter) Signed() bool { return p.WireType.Signed() }

// Schema is the read-only id -> Parameter dictionary built at startup.
type Schema struct {
	params map[uint16]Parameter
}

// RawEntry is the minimal shape Build expects per entry of a parsed
// schema document: an id, a type spelling, and optional name/unit.
// cmd/gopher-vision's YAML loader produces these from the on-disk config.
type RawEntry struct {
	ID       uint16
	Type     string
	MotecName string
	Unit     string
	HasID    bool
}

// Build constructs a Schema from already-parsed entries. Duplicate ids,
// unknown types, and entries missing an id are logged and skipped —
// this never fails the process, matching spec.md §4.A.
func Build(entries []RawEntry) *Schema {
	s := &Schema{params: make(map[uint16]Parameter, len(entries))}
	for _, e := range entries {
		if !e.HasID {
			logging.L().Warn("schema_entry_skipped", "reason", "missing_id")
			continue
		}
		wt, ok := ParseWireType(e.Type)
		if !ok {
			logging.L().Warn("schema_entry_skipped", "reason", "invalid_type", "id", e.ID, "type", e.Type)
			continue
		}
		if _, dup := s.params[e.ID]; dup {
			logging.L().Warn("schema_entry_skipped", "reason", "duplicate_id", "id", e.ID)
			continue
		}
		s.params[e.ID] = Parameter{ID: e.ID, Name: e.MotecName, Unit: e.Unit, WireType: wt}
	}
	return s
}

// Lookup returns the Parameter registered for id, if any.
func (s *Schema) Lookup(id uint16) (Parameter, bool) {
	p, ok := s.params[id]
	return p, ok
}

// Len returns the number of parameters in the schema.
func (s *Schema) Len() int { return len(s.params) }

// IDs returns the schema's parameter ids in no particular order.
func (s *Schema) IDs() []uint16 {
	ids := make([]uint16, 0, len(s.params))
	for id := range s.params {
		ids = append(ids, id)
	}
	return ids
}

// Validate returns an error describing why id is not decodable, or nil.
func (s *Schema) Validate(id uint16, payloadLen int) error {
	p, ok := s.params[id]
	if !ok {
		return fmt.Errorf("schema: unknown parameter id %d", id)
	}
	if payloadLen != p.Size() {
		return fmt.Errorf("schema: parameter %d (%s) expects %d payload bytes, got %d", id, p.Name, p.Size(), payloadLen)
	}
	return nil
}
