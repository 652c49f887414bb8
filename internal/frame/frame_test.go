package frame

import (
	"bytes"
	"testing"
)

func TestEscapeLeaveLeadingSDUnescaped(t *testing.T) {
	pkt := []byte{SD, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x7E, 0xFE}
	got := Escape(pkt)
	want := []byte{SD, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x7D, 0x5E, 0xFE}
	if !bytes.Equal(got, want) {
		t.Fatalf("Escape() = % X, want % X", got, want)
	}
}

func TestChecksumMatchesScenarioS1(t *testing.T) {
	// spec S1: ts=1, id=1, data=0x7E.
	unescaped := []byte{SD, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x7E}
	if got, want := Checksum(unescaped), byte(0xFE); got != want {
		t.Fatalf("Checksum() = %#x, want %#x", got, want)
	}
}

func TestDecodeStreamScenarioS1(t *testing.T) {
	wire := []byte{SD, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x7D, 0x5E, 0xFE}
	var got []byte
	d := NewDecoder()
	buf := bytes.NewBuffer(wire)
	d.DecodeStream(buf, func(body []byte) { got = body })
	d.Flush(func(body []byte) { got = body })

	want := []byte{SD, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x7E}
	if !bytes.Equal(got, want) {
		t.Fatalf("decoded body = % X, want % X", got, want)
	}
}

func TestDecodeStreamToleratesArbitraryChunking(t *testing.T) {
	pkt1 := BuildPacket(10, 1, []byte{0x42})
	pkt2 := BuildPacket(20, 2, []byte{0x43})
	wire := append(Escape(pkt1), Escape(pkt2)...)

	for split := 0; split <= len(wire); split++ {
		var got [][]byte
		d := NewDecoder()
		buf1 := bytes.NewBuffer(wire[:split])
		buf2 := bytes.NewBuffer(wire[split:])
		onPacket := func(body []byte) {
			cp := make([]byte, len(body))
			copy(cp, body)
			got = append(got, cp)
		}
		d.DecodeStream(buf1, onPacket)
		d.DecodeStream(buf2, onPacket)
		d.Flush(onPacket)

		if len(got) != 2 {
			t.Fatalf("split at %d: got %d packets, want 2", split, len(got))
		}
	}
}

func TestDecodeStreamDiscardsShortPacket(t *testing.T) {
	bad := []byte{SD, 0x01, 0x02} // far too short
	good := Escape(BuildPacket(5, 3, []byte{0x01}))
	wire := append(bad, good...)

	var got [][]byte
	d := NewDecoder()
	buf := bytes.NewBuffer(wire)
	d.DecodeStream(buf, func(body []byte) { got = append(got, body) })
	d.Flush(func(body []byte) { got = append(got, body) })

	if len(got) != 1 {
		t.Fatalf("got %d packets, want 1 (short packet must be discarded)", len(got))
	}
}

func TestCompactBufferReclaimsCapacity(t *testing.T) {
	// >=1024 unread bytes but occupying under 25% of the buffer's capacity.
	buf := bytes.NewBuffer(make([]byte, 0, 8192))
	buf.Write(make([]byte, 1200))

	if !CompactBuffer(buf) {
		t.Fatalf("expected compaction: 1200 unread bytes in an 8192-cap buffer")
	}
	if buf.Len() != 1200 {
		t.Fatalf("compaction must preserve unread bytes, got len %d", buf.Len())
	}
}
