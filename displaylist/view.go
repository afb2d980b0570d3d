package displaylist

import (
	"encoding/binary"
	"math"
)

// Raw little-endian accessors. Callers are responsible for bounds; the
// Dispatcher validates every region once at construction so the hot
// decode path can read without per-field checks.

func getU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

func getU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func getU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off:])
}

func getF32(b []byte, off int) float32 {
	return math.Float32frombits(getU32(b, off))
}

func putU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:], v)
}

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

func putU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}

func putF32(b []byte, off int, v float32) {
	putU32(b, off, math.Float32bits(v))
}

func appendU32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendF32(b []byte, v float32) []byte {
	return appendU32(b, math.Float32bits(v))
}

// alignUp rounds n up to the next multiple of align (a power of two).
func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
