package decode

import (
	"math"
	"testing"

	"github.com/gopher-motorsports/gopher-vision/internal/frame"
	"github.com/gopher-motorsports/gopher-vision/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	return schema.Build([]schema.RawEntry{
		{ID: 1, Type: "U8", MotecName: "byte_chan", HasID: true},
		{ID: 2, Type: "F32", MotecName: "float_chan", Unit: "kPa", HasID: true},
		{ID: 3, Type: "S16", MotecName: "signed_chan", HasID: true},
	})
}

func TestDecodeScenarioS1(t *testing.T) {
	sch := testSchema(t)
	body := frame.BuildPacket(1, 1, []byte{0x7E})
	body = body[:len(body)-1] // strip checksum; Decode expects it already stripped

	sm, err := Decode(body, sch)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sm.T != 1 || sm.ID != 1 || sm.V != 126 {
		t.Fatalf("Decode() = %+v, want {T:1 ID:1 V:126}", sm)
	}
}

func TestDecodeFloat32BigEndian(t *testing.T) {
	sch := testSchema(t)
	var payload [4]byte
	bits := math.Float32bits(101.5)
	payload[0] = byte(bits >> 24)
	payload[1] = byte(bits >> 16)
	payload[2] = byte(bits >> 8)
	payload[3] = byte(bits)

	body := frame.BuildPacket(100, 2, payload[:])
	body = body[:len(body)-1]

	sm, err := Decode(body, sch)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sm.V != float64(float32(101.5)) {
		t.Fatalf("Decode() V = %v, want 101.5", sm.V)
	}
}

func TestDecodeSignedNegative(t *testing.T) {
	sch := testSchema(t)
	body := frame.BuildPacket(1, 3, []byte{0xFF, 0xFE}) // -2
	body = body[:len(body)-1]

	sm, err := Decode(body, sch)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sm.V != -2 {
		t.Fatalf("Decode() V = %v, want -2", sm.V)
	}
}

func TestDecodeUnknownIDIsRecoverable(t *testing.T) {
	sch := testSchema(t)
	body := frame.BuildPacket(1, 99, []byte{0x01})
	body = body[:len(body)-1]

	if _, err := Decode(body, sch); err == nil {
		t.Fatal("expected error for unknown parameter id")
	}
}

func TestDecodePayloadSizeMismatch(t *testing.T) {
	sch := testSchema(t)
	body := frame.BuildPacket(1, 1, []byte{0x01, 0x02}) // U8 expects 1 byte
	body = body[:len(body)-1]

	if _, err := Decode(body, sch); err == nil {
		t.Fatal("expected error for payload length mismatch")
	}
}
