package displaylist

import "errors"

// Buffer parse errors. A malformed buffer is rejected when the Dispatcher
// is constructed, before any offset is dereferenced; dispatch itself never
// sees an invalid buffer.
var (
	ErrInvalidMagic      = errors.New("displaylist: invalid magic")
	ErrVersionMismatch   = errors.New("displaylist: version mismatch")
	ErrBufferTooSmall    = errors.New("displaylist: buffer too small")
	ErrInvalidChunkIndex = errors.New("displaylist: invalid chunk index")
	ErrInvalidDataOffset = errors.New("displaylist: invalid data offset")
	ErrChecksumMismatch  = errors.New("displaylist: checksum mismatch")
	ErrUnknownChunk      = errors.New("displaylist: unknown chunk id")
)

// Recorder usage errors, surfaced by Finish.
var (
	ErrNoOpenChunk   = errors.New("displaylist: operation outside an open chunk")
	ErrChunkOpen     = errors.New("displaylist: chunk still open at finish")
	ErrDuplicateID   = errors.New("displaylist: duplicate chunk id")
	ErrGlyphMismatch = errors.New("displaylist: glyph and position counts differ")
)

const (
	// magic identifies a display list buffer ("FDLB").
	magic = "FDLB"
	// patchMagic identifies a patch buffer ("FDLP").
	patchMagic = "FDLP"

	// formatVersion is the current wire version. A Dispatcher rejects any
	// other major version rather than guessing at field layout.
	formatVersion uint16 = 1

	headerSize     = 64
	chunkEntrySize = 32
	manifestSize   = 16
	recordAlign    = 8
)

// Record framing: every record starts with a 12-byte header — opcode
// (uint32), record size (uint32), reserved (uint32) — padded so the
// payload begins recordAlign-aligned.
const (
	recOffOp       = 0
	recOffSize     = 4
	recOffReserved = 8
	recPayload     = 16
)

// Header field offsets.
const (
	offMagic         = 0  // 4 bytes
	offVersion       = 4  // uint16
	offFlags         = 6  // uint16
	offHeaderSize    = 8  // uint32
	offTotalSize     = 12 // uint64
	offChunkCount    = 20 // uint32
	offManifestCount = 24 // uint32
	offChunkIndex    = 28 // uint64
	offDataPool      = 36 // uint64
	offChecksum      = 44 // uint32, CRC-32 over buffer[headerSize:]
	// 48..64 reserved
)

// Chunk index entry field offsets (relative to the entry).
const (
	entOffID     = 0  // uint32
	entOffKind   = 4  // uint16
	entOffFlags  = 6  // uint16
	entOffBounds = 8  // 4 × float32: min x, min y, max x, max y
	entOffStart  = 24 // uint32, byte offset of the chunk body in the buffer
	entOffSize   = 28 // uint32, byte size of the chunk body
)

// chunkFlagHasBounds marks an entry whose bounding box is meaningful.
// A chunk that recorded no geometry has no box and is never culled.
const chunkFlagHasBounds uint16 = 1 << 0

// Manifest entry field offsets (relative to the entry).
const (
	manOffID       = 0  // uint32, resource id
	manOffKind     = 4  // uint16
	manOffFlags    = 6  // uint16
	manOffLength   = 8  // uint32, resource byte length
	manOffChecksum = 12 // uint32
)

// ResourceKind distinguishes manifest entries.
type ResourceKind uint16

const (
	ResourceImage ResourceKind = 1
	ResourceFont  ResourceKind = 2
)

// String returns a human-readable name for the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case ResourceImage:
		return "Image"
	case ResourceFont:
		return "Font"
	default:
		return "Unknown"
	}
}

// Opcode identifies a drawing record. Each opcode has a fixed record size;
// variable-length payloads live in the data pool and are referenced by
// pool-relative offsets inside the record.
type Opcode uint32

const (
	OpNop Opcode = iota
	OpFillRect
	OpStrokeRect
	OpSetTransform
	OpSetBlendMode
	OpTranslate
	OpClipRect
	OpDrawImage
	OpDrawGlyphs
	OpFillPath
	OpSave
	OpRestore
)

// String returns a human-readable name for the opcode.
func (op Opcode) String() string {
	switch op {
	case OpNop:
		return "Nop"
	case OpFillRect:
		return "FillRect"
	case OpStrokeRect:
		return "StrokeRect"
	case OpSetTransform:
		return "SetTransform"
	case OpSetBlendMode:
		return "SetBlendMode"
	case OpTranslate:
		return "Translate"
	case OpClipRect:
		return "ClipRect"
	case OpDrawImage:
		return "DrawImage"
	case OpDrawGlyphs:
		return "DrawGlyphs"
	case OpFillPath:
		return "FillPath"
	case OpSave:
		return "Save"
	case OpRestore:
		return "Restore"
	default:
		return "Unknown"
	}
}

// recordSize returns the full record size for the opcode, including the
// record header and its padding, or 0 for an unknown opcode. All sizes
// are multiples of recordAlign so records can be walked without per-field
// alignment fixups.
func (op Opcode) recordSize() int {
	switch op {
	case OpNop, OpSave, OpRestore:
		return recPayload
	case OpSetBlendMode, OpTranslate:
		return recPayload + 8
	case OpClipRect:
		return recPayload + 16
	case OpFillRect, OpStrokeRect, OpSetTransform, OpDrawGlyphs, OpFillPath:
		return recPayload + 24
	case OpDrawImage:
		return recPayload + 40
	default:
		return 0
	}
}

// ManifestEntry describes one external resource the buffer depends on.
// The length and checksum let a consumer verify it resolved the same
// bytes the producer recorded against.
type ManifestEntry struct {
	ID       uint32
	Kind     ResourceKind
	Flags    uint16
	Length   uint32
	Checksum uint32
}
