package frame

import "encoding/binary"

// BuildPacket assembles one unescaped, checksummed packet body (SD, ms
// timestamp, parameter id, payload, checksum) — the inverse of Decoder's
// validated output. Used by tests and by the synthetic packet generator.
func BuildPacket(timestampMs uint32, id uint16, payload []byte) []byte {
	pkt := make([]byte, 1+4+2+len(payload)+1)
	pkt[0] = SD
	binary.BigEndian.PutUint32(pkt[1:5], timestampMs)
	binary.BigEndian.PutUint16(pkt[5:7], id)
	copy(pkt[7:7+len(payload)], payload)
	pkt[len(pkt)-1] = Checksum(pkt[:len(pkt)-1])
	return pkt
}

// EncodeWire returns the on-wire (escaped) bytes for one packet built from
// timestampMs/id/payload — BuildPacket followed by Escape.
func EncodeWire(timestampMs uint32, id uint16, payload []byte) []byte {
	return Escape(BuildPacket(timestampMs, id, payload))
}
