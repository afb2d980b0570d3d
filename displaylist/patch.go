package displaylist

import (
	"errors"

	"github.com/figdraw/figdraw"
)

// Patch errors. A patch is rejected whole, before any output is built;
// the base buffer is never touched either way, since application always
// produces a new buffer.
var (
	ErrPatchVersionMismatch  = errors.New("displaylist: patch base version mismatch")
	ErrPatchInvalidOffset    = errors.New("displaylist: patch offset out of range")
	ErrPatchInvalidOperation = errors.New("displaylist: invalid patch operation")
)

// PatchOp identifies a patch operation.
type PatchOp uint32

const (
	PatchReplaceChunk PatchOp = iota + 1
	PatchDeleteChunk
	PatchInsertChunk
	PatchUpdateManifest
	PatchFullReplace
)

// String returns a human-readable name for the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchReplaceChunk:
		return "ReplaceChunk"
	case PatchDeleteChunk:
		return "DeleteChunk"
	case PatchInsertChunk:
		return "InsertChunk"
	case PatchUpdateManifest:
		return "UpdateManifest"
	case PatchFullReplace:
		return "FullReplace"
	default:
		return "Unknown"
	}
}

// Patch buffer layout: a 32-byte header, an operation table of fixed
// 16-byte entries, then the payloads each entry points at.
const (
	patchHeaderSize = 32
	patchOpSize     = 16

	patchVersion uint16 = 1

	poffMagic       = 0  // 4 bytes
	poffVersion     = 4  // uint16, patch format version
	poffBaseVersion = 6  // uint16, display list version this applies to
	poffBaseHeader  = 8  // uint32, display list header size this applies to
	poffOpCount     = 12 // uint32
	poffTotalSize   = 16 // uint64
	// 24..32 reserved

	popOffOp      = 0  // uint32
	popOffChunkID = 4  // uint32
	popOffPayload = 8  // uint32, payload offset from patch buffer start
	popOffSize    = 12 // uint32, payload byte size
)

// chunkMeta prefixes a ReplaceChunk/InsertChunk payload: the index entry
// fields of the new chunk, followed by its body records. Body records may
// reference the base buffer's data pool, which is carried over unchanged.
const (
	chunkMetaSize = 24

	metaOffKind   = 0 // uint16
	metaOffFlags  = 2 // uint16
	metaOffBounds = 4 // 4 × float32
	// 20..24 reserved
)

// PatchBuilder assembles a patch buffer. Like the Recorder, errors are
// sticky and reported by Finish.
type PatchBuilder struct {
	ops      []draftOp
	payloads [][]byte
	err      error
}

type draftOp struct {
	op      PatchOp
	chunkID uint32
	payload int // index into payloads, -1 for none
}

// NewPatchBuilder creates a patch builder targeting the current display
// list format version.
func NewPatchBuilder() *PatchBuilder {
	return &PatchBuilder{}
}

func (b *PatchBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *PatchBuilder) add(op PatchOp, chunkID uint32, payload []byte) {
	idx := -1
	if payload != nil {
		idx = len(b.payloads)
		b.payloads = append(b.payloads, payload)
	}
	b.ops = append(b.ops, draftOp{op: op, chunkID: chunkID, payload: idx})
}

func chunkPayload(kind uint16, bounds *figdraw.Rect, body []byte) []byte {
	p := make([]byte, chunkMetaSize+len(body))
	putU16(p, metaOffKind, kind)
	if bounds != nil {
		putU16(p, metaOffFlags, chunkFlagHasBounds)
		putF32(p, metaOffBounds, float32(bounds.X))
		putF32(p, metaOffBounds+4, float32(bounds.Y))
		putF32(p, metaOffBounds+8, float32(bounds.X+bounds.W))
		putF32(p, metaOffBounds+12, float32(bounds.Y+bounds.H))
	}
	copy(p[chunkMetaSize:], body)
	return p
}

// ReplaceChunk substitutes the body (and index entry fields) of an
// existing chunk. Pass nil bounds for a chunk without a bounding box.
func (b *PatchBuilder) ReplaceChunk(id uint32, kind uint16, bounds *figdraw.Rect, body []byte) {
	if len(body)%recordAlign != 0 {
		b.fail(ErrPatchInvalidOperation)
		return
	}
	b.add(PatchReplaceChunk, id, chunkPayload(kind, bounds, body))
}

// InsertChunk appends a new chunk with the given id.
func (b *PatchBuilder) InsertChunk(id uint32, kind uint16, bounds *figdraw.Rect, body []byte) {
	if len(body)%recordAlign != 0 {
		b.fail(ErrPatchInvalidOperation)
		return
	}
	b.add(PatchInsertChunk, id, chunkPayload(kind, bounds, body))
}

// DeleteChunk removes an existing chunk.
func (b *PatchBuilder) DeleteChunk(id uint32) {
	b.add(PatchDeleteChunk, id, nil)
}

// UpdateManifest replaces the manifest entry with the same id and kind,
// or appends it.
func (b *PatchBuilder) UpdateManifest(e ManifestEntry) {
	p := make([]byte, manifestSize)
	putU32(p, manOffID, e.ID)
	putU16(p, manOffKind, uint16(e.Kind))
	putU16(p, manOffFlags, e.Flags)
	putU32(p, manOffLength, e.Length)
	putU32(p, manOffChecksum, e.Checksum)
	b.add(PatchUpdateManifest, e.ID, p)
}

// FullReplace supersedes the base buffer entirely with buf, which must be
// a complete display list buffer.
func (b *PatchBuilder) FullReplace(buf []byte) {
	b.add(PatchFullReplace, 0, buf)
}

// Finish lays out the patch buffer.
func (b *PatchBuilder) Finish() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	total := patchHeaderSize + patchOpSize*len(b.ops)
	offsets := make([]int, len(b.payloads))
	for i, p := range b.payloads {
		total = alignUp(total, recordAlign)
		offsets[i] = total
		total += len(p)
	}

	buf := make([]byte, total)
	copy(buf[poffMagic:], patchMagic)
	putU16(buf, poffVersion, patchVersion)
	putU16(buf, poffBaseVersion, formatVersion)
	putU32(buf, poffBaseHeader, headerSize)
	putU32(buf, poffOpCount, uint32(len(b.ops)))
	putU64(buf, poffTotalSize, uint64(total))

	for i, op := range b.ops {
		ent := buf[patchHeaderSize+patchOpSize*i:]
		putU32(ent, popOffOp, uint32(op.op))
		putU32(ent, popOffChunkID, op.chunkID)
		if op.payload >= 0 {
			putU32(ent, popOffPayload, uint32(offsets[op.payload]))
			putU32(ent, popOffSize, uint32(len(b.payloads[op.payload])))
		}
	}
	for i, p := range b.payloads {
		copy(buf[offsets[i]:], p)
	}
	return buf, nil
}

// patchOpView is a parsed, offset-checked patch operation.
type patchOpView struct {
	op      PatchOp
	chunkID uint32
	payload []byte
}

// Apply validates patch against base and produces a new display list
// buffer with the patch's operations applied. The base buffer is read,
// never modified: a Dispatcher over it stays valid, and a Dispatcher is
// only ever handed a complete new buffer. All validation happens before
// any output is assembled, so a rejected patch has no effect at all.
//
// A FullReplace operation short-circuits: its payload (itself a complete
// buffer) becomes the result verbatim.
func Apply(base, patch []byte) ([]byte, error) {
	ops, err := parsePatch(base, patch)
	if err != nil {
		return nil, err
	}

	// Parsing base through the Dispatcher reuses its full validation.
	d, err := NewDispatcher(base, nil)
	if err != nil {
		return nil, err
	}
	pool := base[d.poolOff:]

	for _, op := range ops {
		if op.op == PatchFullReplace {
			if _, err := NewDispatcher(op.payload, nil); err != nil {
				return nil, err
			}
			return op.payload, nil
		}
	}

	chunks := make([]rawChunk, 0, len(d.chunks))
	for _, c := range d.chunks {
		body, _ := d.ChunkBody(c.ID)
		chunks = append(chunks, rawChunk{
			id:     c.ID,
			kind:   c.Kind,
			flags:  c.Flags,
			bounds: c.rawBounds,
			body:   body,
		})
	}
	manifest := d.Manifest()

	find := func(id uint32) int {
		for i := range chunks {
			if chunks[i].id == id {
				return i
			}
		}
		return -1
	}

	// Validate every operation against the evolving chunk set before
	// assembling anything.
	for _, op := range ops {
		switch op.op {
		case PatchReplaceChunk, PatchInsertChunk:
			if len(op.payload) < chunkMetaSize {
				return nil, ErrPatchInvalidOffset
			}
			body := op.payload[chunkMetaSize:]
			if err := validateBody(body, len(pool)); err != nil {
				return nil, err
			}
			idx := find(op.chunkID)
			if op.op == PatchReplaceChunk && idx < 0 {
				return nil, ErrUnknownChunk
			}
			if op.op == PatchInsertChunk && idx >= 0 {
				return nil, ErrPatchInvalidOperation
			}
			raw := rawChunk{
				id:    op.chunkID,
				kind:  getU16(op.payload, metaOffKind),
				flags: getU16(op.payload, metaOffFlags),
				body:  body,
			}
			for j := range raw.bounds {
				raw.bounds[j] = getF32(op.payload, metaOffBounds+4*j)
			}
			if op.op == PatchReplaceChunk {
				chunks[idx] = raw
			} else {
				chunks = append(chunks, raw)
			}
		case PatchDeleteChunk:
			idx := find(op.chunkID)
			if idx < 0 {
				return nil, ErrUnknownChunk
			}
			chunks = append(chunks[:idx], chunks[idx+1:]...)
		case PatchUpdateManifest:
			if len(op.payload) != manifestSize {
				return nil, ErrPatchInvalidOffset
			}
			e := ManifestEntry{
				ID:       getU32(op.payload, manOffID),
				Kind:     ResourceKind(getU16(op.payload, manOffKind)),
				Flags:    getU16(op.payload, manOffFlags),
				Length:   getU32(op.payload, manOffLength),
				Checksum: getU32(op.payload, manOffChecksum),
			}
			replaced := false
			for i := range manifest {
				if manifest[i].ID == e.ID && manifest[i].Kind == e.Kind {
					manifest[i] = e
					replaced = true
					break
				}
			}
			if !replaced {
				manifest = append(manifest, e)
			}
		default:
			return nil, ErrPatchInvalidOperation
		}
	}

	return assemble(chunks, manifest, pool), nil
}

// parsePatch checks patch framing and the declared base version against
// base's header, and returns offset-checked operations.
func parsePatch(base, patch []byte) ([]patchOpView, error) {
	if len(patch) < patchHeaderSize {
		return nil, ErrBufferTooSmall
	}
	if string(patch[poffMagic:poffMagic+4]) != patchMagic {
		return nil, ErrInvalidMagic
	}
	if getU16(patch, poffVersion) != patchVersion {
		return nil, ErrVersionMismatch
	}
	if getU64(patch, poffTotalSize) != uint64(len(patch)) {
		return nil, ErrBufferTooSmall
	}
	if len(base) < headerSize {
		return nil, ErrBufferTooSmall
	}
	if getU16(patch, poffBaseVersion) != getU16(base, offVersion) ||
		getU32(patch, poffBaseHeader) != getU32(base, offHeaderSize) {
		return nil, ErrPatchVersionMismatch
	}

	opCount := int(getU32(patch, poffOpCount))
	if patchHeaderSize+patchOpSize*opCount > len(patch) {
		return nil, ErrPatchInvalidOffset
	}
	ops := make([]patchOpView, opCount)
	for i := range ops {
		ent := patch[patchHeaderSize+patchOpSize*i:]
		off := int(getU32(ent, popOffPayload))
		size := int(getU32(ent, popOffSize))
		if size > 0 && (off < patchHeaderSize || off+size > len(patch)) {
			return nil, ErrPatchInvalidOffset
		}
		ops[i] = patchOpView{
			op:      PatchOp(getU32(ent, popOffOp)),
			chunkID: getU32(ent, popOffChunkID),
		}
		if size > 0 {
			ops[i].payload = patch[off : off+size]
		}
	}
	return ops, nil
}
