package pipeline

import (
	"math"
	"testing"

	"github.com/gopher-motorsports/gopher-vision/internal/frame"
	"github.com/gopher-motorsports/gopher-vision/internal/ldformat"
	"github.com/gopher-motorsports/gopher-vision/internal/schema"
)

func TestFeedDecodeFinalizeEndToEnd(t *testing.T) {
	sch := schema.Build([]schema.RawEntry{
		{ID: 1, Type: "U16", MotecName: "rpm", Unit: "rpm", HasID: true},
	})
	p := New(sch)

	var wire []byte
	for i, v := range []uint16{1000, 1100, 1200, 1300} {
		payload := []byte{byte(v >> 8), byte(v)}
		wire = append(wire, frame.EncodeWire(uint32(i*10), 1, payload)...)
	}
	p.Feed(wire)
	p.Flush()

	channels := p.Store.Finalize()
	if len(channels) != 1 {
		t.Fatalf("got %d channels, want 1", len(channels))
	}
	if channels[0].NPoints != 4 {
		t.Fatalf("NPoints = %d, want 4", channels[0].NPoints)
	}

	v, ok := p.Store.Latest(1)
	if !ok || v != 1300 {
		t.Fatalf("Latest(1) = (%v,%v), want (1300,true)", v, ok)
	}
}

func TestConvertWritesAllSurvivingChannels(t *testing.T) {
	sch := schema.Build([]schema.RawEntry{
		{ID: 1, Type: "U16", MotecName: "rpm", Unit: "rpm", HasID: true},
	})
	p := New(sch)

	var wire []byte
	for i, v := range []uint16{1000, 1100, 1200, 1300} {
		payload := []byte{byte(v >> 8), byte(v)}
		wire = append(wire, frame.EncodeWire(uint32(i*10), 1, payload)...)
	}
	p.Feed(wire)
	p.Flush()

	var written []ldformat.Channel
	result, err := Convert(p, ldformat.Session{}, func(channels []ldformat.Channel) error {
		written = channels
		return nil
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.ChannelsWritten != 1 || result.ChannelsDropped != 0 {
		t.Fatalf("ConvertResult = %+v, want {1 0}", result)
	}
	if len(written) != 1 || written[0].Name != "rpm" {
		t.Fatalf("written channels = %+v", written)
	}
}

func TestConvertReportsFailureWhenAllChannelsDropped(t *testing.T) {
	sch := schema.Build([]schema.RawEntry{
		{ID: 1, Type: "F32", MotecName: "tiny", HasID: true},
	})
	p := New(sch)

	// An abs_max this small forces the decade-centering constant past the
	// x >= -3 clamp, driving the required scalar above 0x7FF.
	bits := math.Float32bits(1e-6)
	payload := []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
	p.Feed(frame.EncodeWire(0, 1, payload))
	p.Flush()

	_, err := Convert(p, ldformat.Session{}, func(channels []ldformat.Channel) error {
		t.Fatal("writeLD must not be called when every channel is dropped")
		return nil
	})
	if err == nil {
		t.Fatal("expected an error when every channel fails encoding")
	}
}
