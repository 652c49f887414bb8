package ldformat

import "encoding/binary"

// putString writes s into buf[off:off+n] as NUL-padded UTF-8, truncating if
// s is longer than n.
func putString(buf []byte, off, n int, s string) {
	b := []byte(s)
	if len(b) > n {
		b = b[:n]
	}
	copy(buf[off:off+n], b)
}

// getString reads a NUL-padded UTF-8 field of width n, trimming the padding.
func getString(buf []byte, off, n int) string {
	field := buf[off : off+n]
	i := 0
	for i < len(field) && field[i] != 0 {
		i++
	}
	return string(field[:i])
}

func putU16(buf []byte, off int, v uint16) { binary.LittleEndian.PutUint16(buf[off:], v) }
func putU32(buf []byte, off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:], v) }
func putU64(buf []byte, off int, v uint64) { binary.LittleEndian.PutUint64(buf[off:], v) }
func putI16(buf []byte, off int, v int16)  { binary.LittleEndian.PutUint16(buf[off:], uint16(v)) }
func putI32(buf []byte, off int, v int32)  { binary.LittleEndian.PutUint32(buf[off:], uint32(v)) }

func getU16(buf []byte, off int) uint16 { return binary.LittleEndian.Uint16(buf[off:]) }
func getU32(buf []byte, off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }
func getU64(buf []byte, off int) uint64 { return binary.LittleEndian.Uint64(buf[off:]) }
func getI16(buf []byte, off int) int16  { return int16(binary.LittleEndian.Uint16(buf[off:])) }
func getI32(buf []byte, off int) int32  { return int32(binary.LittleEndian.Uint32(buf[off:])) }
