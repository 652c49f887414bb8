// Package frame implements the GDAT byte-oriented framing codec: turning a
// lossy serial/UDP byte stream into discrete, checksum-validated packets.
//
// The on-wire packet (once unescaped, including the leading start
// delimiter) is:
//
//	offset  0   1 2 3 4      5 6    7 .. n   n+1
//	field   SD  TIMESTAMP    ID     DATA     CKSUM
//	        u8  u32          u16    typed    u8
//
// Framing is grounded on the teacher's internal/serial UART codec: a
// bytes.Buffer-backed streaming decoder that re-syncs on the next start
// delimiter after any corrupt packet, plus the same buffer-compaction trick
// to bound memory growth from misaligned garbage.
package frame

import (
	"bytes"

	"github.com/gopher-motorsports/gopher-vision/internal/metrics"
)

// Wire constants (spec.md §4.B / §6).
const (
	SD      byte = 0x7E // start delimiter; begins every packet
	ESC     byte = 0x7D // escape byte; next byte is XORed with ESC_XOR
	ESC_XOR byte = 0x20

	// minPacketLen is the shortest valid unescaped packet: SD(1) + TS(4) + ID(2) + DATA(1) + CKSUM(1).
	minPacketLen = 1 + 4 + 2 + 1 + 1
)

// Escape returns the on-wire encoding of an unescaped packet (including its
// leading SD byte, which is never itself escaped).
func Escape(pkt []byte) []byte {
	if len(pkt) == 0 {
		return nil
	}
	out := make([]byte, 0, len(pkt)+4)
	out = append(out, pkt[0]) // leading SD is never escaped
	for _, b := range pkt[1:] {
		if b == SD || b == ESC {
			out = append(out, ESC, b^ESC_XOR)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// Checksum computes the GDAT checksum: the low byte of the unsigned sum of
// all unescaped bytes of the packet, including the leading SD and excluding
// the checksum byte itself.
func Checksum(unescapedPacketWithoutChecksum []byte) byte {
	var sum byte
	for _, b := range unescapedPacketWithoutChecksum {
		sum += b
	}
	return sum
}

// CompactBuffer reclaims consumed prefix capacity once the underlying buffer
// has grown large relative to its unread bytes. Returns true if it compacted.
func CompactBuffer(b *bytes.Buffer) bool {
	data := b.Bytes()
	if len(data) < 1024 {
		return false
	}
	if cap(data) > 0 && len(data)*4 < cap(data) {
		clone := make([]byte, len(data))
		copy(clone, data)
		b.Reset()
		_, _ = b.Write(clone)
		return true
	}
	return false
}

// Stats counts recoverable framing errors observed by a Decoder.
type Stats struct {
	ChecksumFail uint64
	ShortPacket  uint64
}

// Decoder is the streaming state machine of spec.md §4.B: it consumes bytes
// from an accumulation buffer and emits unescaped, checksum-validated
// packet bodies (header + timestamp + id + data, checksum byte stripped) to
// a callback. It holds no schema knowledge — that's internal/decode's job.
type Decoder struct {
	stats Stats

	// inEscape is carried across DecodeStream calls so a chunk boundary
	// landing mid-escape-sequence doesn't corrupt the next packet.
	inEscape bool
	cur      []byte
	started  bool
}

// NewDecoder returns a Decoder ready to consume a fresh byte stream.
func NewDecoder() *Decoder { return &Decoder{} }

// Stats returns a copy of the decoder's error counters.
func (d *Decoder) Stats() Stats { return d.stats }

// DecodeStream drains buf, unescaping bytes through the IDLE/BODY/BODY_ESC
// state machine of spec.md §4.B and invoking onPacket with each
// checksum-valid, unescaped packet body (SD..DATA, i.e. the checksum byte is
// stripped after being verified). It consumes buf until it is empty; a
// packet still in progress is kept in the decoder for the next call. It never
// returns an error: malformed/checksum-mismatched packets are counted and
// discarded, per spec.md §7.
func (d *Decoder) DecodeStream(buf *bytes.Buffer, onPacket func([]byte)) {
	for {
		b, err := buf.ReadByte()
		if err != nil {
			return // no more bytes buffered
		}
		switch {
		case !d.started:
			if b == SD {
				d.cur = append(d.cur[:0], SD)
				d.started = true
			}
			// else: discard byte, stay IDLE
		case d.inEscape:
			d.cur = append(d.cur, b^ESC_XOR)
			d.inEscape = false
		case b == SD:
			d.finalize(onPacket)
			d.cur = append(d.cur[:0], SD)
			d.started = true
		case b == ESC:
			d.inEscape = true
		default:
			d.cur = append(d.cur, b)
		}
		_ = CompactBuffer(buf)
	}
}

// finalize validates and emits the packet accumulated in d.cur (a fresh SD
// found, or stream exhaustion via Flush, triggers this).
func (d *Decoder) finalize(onPacket func([]byte)) {
	pkt := d.cur
	if len(pkt) < minPacketLen {
		if len(pkt) > 0 {
			d.stats.ShortPacket++
			metrics.IncFrameError()
		}
		return
	}
	body, cksum := pkt[:len(pkt)-1], pkt[len(pkt)-1]
	if Checksum(body) != cksum {
		d.stats.ChecksumFail++
		metrics.IncChecksumFail()
		return
	}
	onPacket(body)
}

// Flush finalizes any packet currently buffered in the decoder (useful at
// end-of-stream, since the state machine normally only finalizes a packet
// once the *next* SD arrives).
func (d *Decoder) Flush(onPacket func([]byte)) {
	if d.started {
		d.finalize(onPacket)
		d.cur = d.cur[:0]
		d.started = false
		d.inEscape = false
	}
}
