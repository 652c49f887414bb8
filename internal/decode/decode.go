// Package decode turns a validated, unescaped GDAT packet body (as produced
// by internal/frame.Decoder) into a typed sample, schema-driven.
package decode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gopher-motorsports/gopher-vision/internal/metrics"
	"github.com/gopher-motorsports/gopher-vision/internal/schema"
)

// Sample is a single decoded reading: a parameter id, a millisecond
// timestamp since session start, and the value widened to f64.
type Sample struct {
	ID uint16
	T  uint32
	V  float64
}

// Decode splits a validated packet body (SD, timestamp, id, payload — the
// checksum byte already verified and stripped by internal/frame) and
// decodes its payload per the schema. It returns an error for an unknown id
// or payload-length mismatch; callers treat these as recoverable (count and
// discard), per spec.md §7.
func Decode(body []byte, sch *schema.Schema) (Sample, error) {
	if len(body) < 7 {
		return Sample{}, fmt.Errorf("decode: packet too short for header (%d bytes)", len(body))
	}
	ts := binary.BigEndian.Uint32(body[1:5])
	id := binary.BigEndian.Uint16(body[5:7])
	payload := body[7:]

	p, ok := sch.Lookup(id)
	if !ok {
		metrics.IncSchemaMiss()
		return Sample{}, fmt.Errorf("decode: unknown parameter id %d", id)
	}
	if len(payload) != p.Size() {
		metrics.IncPayloadMismatch()
		return Sample{}, fmt.Errorf("decode: parameter %d (%s) expects %d bytes, got %d", id, p.Name, p.Size(), len(payload))
	}

	v, err := decodeValue(payload, p.WireType)
	if err != nil {
		return Sample{}, err
	}
	metrics.IncPacketsDecoded()
	return Sample{ID: id, T: ts, V: v}, nil
}

// decodeValue widens a big-endian payload of the declared wire type to f64.
func decodeValue(b []byte, wt schema.WireType) (float64, error) {
	switch wt {
	case schema.U8:
		return float64(b[0]), nil
	case schema.U16:
		return float64(binary.BigEndian.Uint16(b)), nil
	case schema.U32:
		return float64(binary.BigEndian.Uint32(b)), nil
	case schema.U64:
		return float64(binary.BigEndian.Uint64(b)), nil
	case schema.S8:
		return float64(int8(b[0])), nil
	case schema.S16:
		return float64(int16(binary.BigEndian.Uint16(b))), nil
	case schema.S32:
		return float64(int32(binary.BigEndian.Uint32(b))), nil
	case schema.S64:
		return float64(int64(binary.BigEndian.Uint64(b))), nil
	case schema.F32:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	default:
		return 0, fmt.Errorf("decode: unsupported wire type %v", wt)
	}
}
