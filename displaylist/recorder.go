package displaylist

import (
	"github.com/chewxy/math32"

	"github.com/figdraw/figdraw"
)

// chunkDraft is a chunk being assembled: its body records plus the running
// bounding box of the geometry recorded into it.
type chunkDraft struct {
	id   uint32
	kind uint16
	body []byte

	hasBounds              bool
	minX, minY, maxX, maxY float32
}

func (c *chunkDraft) grow(x, y float32) {
	if !c.hasBounds {
		c.hasBounds = true
		c.minX, c.maxX = x, x
		c.minY, c.maxY = y, y
		return
	}
	c.minX = math32.Min(c.minX, x)
	c.minY = math32.Min(c.minY, y)
	c.maxX = math32.Max(c.maxX, x)
	c.maxY = math32.Max(c.maxY, y)
}

func (c *chunkDraft) growRect(r figdraw.Rect) {
	c.grow(float32(r.X), float32(r.Y))
	c.grow(float32(r.X+r.W), float32(r.Y+r.H))
}

// Recorder is an append-only builder for a display list buffer. Errors are
// sticky: a misuse (an op outside a chunk, mismatched glyph arrays) is
// remembered and reported by Finish, so call sites can chain ops without
// checking each one.
//
// A Recorder is for one goroutine; the buffer it produces is not.
type Recorder struct {
	chunks   []chunkDraft
	open     bool
	pool     []byte
	manifest []ManifestEntry
	nextID   uint32
	err      error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{nextID: 1}
}

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Recorder) cur() *chunkDraft {
	if !r.open {
		r.fail(ErrNoOpenChunk)
		return nil
	}
	return &r.chunks[len(r.chunks)-1]
}

// BeginChunk opens a new chunk of the given application-defined kind and
// returns its id. Ids are assigned sequentially starting at 1. Opening a
// chunk while another is open is an error reported by Finish.
func (r *Recorder) BeginChunk(kind uint16) uint32 {
	if r.open {
		r.fail(ErrChunkOpen)
	}
	id := r.nextID
	r.nextID++
	r.chunks = append(r.chunks, chunkDraft{id: id, kind: kind})
	r.open = true
	return id
}

// EndChunk closes the open chunk.
func (r *Recorder) EndChunk() {
	if !r.open {
		r.fail(ErrNoOpenChunk)
		return
	}
	r.open = false
}

// record appends a record header plus payload bytes to the open chunk.
// The payload append is done by fill, writing into a zeroed slice of the
// opcode's fixed payload size. The reserved word and header padding stay
// zero.
func (r *Recorder) record(op Opcode, fill func(p []byte)) {
	c := r.cur()
	if c == nil {
		return
	}
	size := op.recordSize()
	start := len(c.body)
	c.body = append(c.body, make([]byte, size)...)
	putU32(c.body, start+recOffOp, uint32(op))
	putU32(c.body, start+recOffSize, uint32(size))
	if fill != nil {
		fill(c.body[start+recPayload:])
	}
}

// poolAppend copies data into the shared pool, 8-byte aligned, and returns
// its pool-relative offset. Pool offsets survive patching because the pool
// is carried over whole.
func (r *Recorder) poolAppend(data []byte) uint32 {
	aligned := alignUp(len(r.pool), recordAlign)
	if pad := aligned - len(r.pool); pad > 0 {
		r.pool = append(r.pool, make([]byte, pad)...)
	}
	off := uint32(len(r.pool))
	r.pool = append(r.pool, data...)
	return off
}

// FillRect records a filled rectangle.
func (r *Recorder) FillRect(rect figdraw.Rect, color figdraw.RGBA) {
	r.record(OpFillRect, func(p []byte) {
		putRect(p, 0, rect)
		putU32(p, 16, uint32(color.Packed()))
	})
	if c := r.cur(); c != nil {
		c.growRect(rect)
	}
}

// StrokeRect records a stroked rectangle outline. The bounding box is
// inflated by half the stroke width on each side.
func (r *Recorder) StrokeRect(rect figdraw.Rect, width float64, color figdraw.RGBA) {
	r.record(OpStrokeRect, func(p []byte) {
		putRect(p, 0, rect)
		putF32(p, 16, float32(width))
		putU32(p, 20, uint32(color.Packed()))
	})
	if c := r.cur(); c != nil {
		c.growRect(rect.Inset(figdraw.UniformInsets(-width / 2)))
	}
}

// SetTransform records the 2D affine portion of the transform.
func (r *Recorder) SetTransform(t figdraw.Transform) {
	r.record(OpSetTransform, func(p []byte) {
		putF32(p, 0, float32(t.M[0]))
		putF32(p, 4, float32(t.M[4]))
		putF32(p, 8, float32(t.M[1]))
		putF32(p, 12, float32(t.M[5]))
		putF32(p, 16, float32(t.M[3]))
		putF32(p, 20, float32(t.M[7]))
	})
}

// SetBlendMode records a blend mode change.
func (r *Recorder) SetBlendMode(mode figdraw.BlendMode) {
	r.record(OpSetBlendMode, func(p []byte) {
		putU32(p, 0, uint32(mode))
	})
}

// Translate records a translation of the current state.
func (r *Recorder) Translate(dx, dy float64) {
	r.record(OpTranslate, func(p []byte) {
		putF32(p, 0, float32(dx))
		putF32(p, 4, float32(dy))
	})
}

// ClipRect records a clip. Clips bound later drawing but are not
// themselves geometry, so the chunk's bounding box does not grow.
func (r *Recorder) ClipRect(rect figdraw.Rect) {
	r.record(OpClipRect, func(p []byte) {
		putRect(p, 0, rect)
	})
}

// DrawImage records an image draw referencing a manifest resource id.
func (r *Recorder) DrawImage(image uint32, dst, src figdraw.Rect, filter figdraw.FilterMode) {
	r.record(OpDrawImage, func(p []byte) {
		putU32(p, 0, image)
		putU32(p, 4, uint32(filter))
		putRect(p, 8, dst)
		putRect(p, 24, src)
	})
	if c := r.cur(); c != nil {
		c.growRect(dst)
	}
}

// DrawGlyphs records a glyph run. The glyph ids and pen positions go to
// the data pool; the fixed record holds their pool offsets and count.
func (r *Recorder) DrawGlyphs(font uint32, mode figdraw.GlyphRenderMode, glyphs []uint32, positions []figdraw.Point, color figdraw.RGBA) {
	if len(glyphs) != len(positions) {
		r.fail(ErrGlyphMismatch)
		return
	}
	var gdata, pdata []byte
	for _, g := range glyphs {
		gdata = appendU32(gdata, g)
	}
	for _, pt := range positions {
		pdata = appendF32(pdata, float32(pt.X))
		pdata = appendF32(pdata, float32(pt.Y))
	}
	goff := r.poolAppend(gdata)
	poff := r.poolAppend(pdata)
	r.record(OpDrawGlyphs, func(p []byte) {
		putU32(p, 0, font)
		putU32(p, 4, uint32(mode))
		putU32(p, 8, uint32(color.Packed()))
		putU32(p, 12, uint32(len(glyphs)))
		putU32(p, 16, goff)
		putU32(p, 20, poff)
	})
	if c := r.cur(); c != nil {
		for _, pt := range positions {
			c.grow(float32(pt.X), float32(pt.Y))
		}
	}
}

// FillPath records a filled path as parallel verb and point arrays in the
// data pool. Points are (x, y) pairs consumed by the verbs in order.
func (r *Recorder) FillPath(verbs []byte, points []figdraw.Point, color figdraw.RGBA) {
	var pdata []byte
	for _, pt := range points {
		pdata = appendF32(pdata, float32(pt.X))
		pdata = appendF32(pdata, float32(pt.Y))
	}
	voff := r.poolAppend(verbs)
	poff := r.poolAppend(pdata)
	r.record(OpFillPath, func(p []byte) {
		putU32(p, 0, uint32(color.Packed()))
		putU32(p, 4, uint32(len(verbs)))
		putU32(p, 8, uint32(len(points)))
		putU32(p, 12, voff)
		putU32(p, 16, poff)
	})
	if c := r.cur(); c != nil {
		for _, pt := range points {
			c.grow(float32(pt.X), float32(pt.Y))
		}
	}
}

// Save records a render-state save.
func (r *Recorder) Save() {
	r.record(OpSave, nil)
}

// Restore records a render-state restore.
func (r *Recorder) Restore() {
	r.record(OpRestore, nil)
}

// AddResource appends a manifest entry. An entry with an id already in the
// manifest replaces it.
func (r *Recorder) AddResource(e ManifestEntry) {
	for i := range r.manifest {
		if r.manifest[i].ID == e.ID && r.manifest[i].Kind == e.Kind {
			r.manifest[i] = e
			return
		}
	}
	r.manifest = append(r.manifest, e)
}

// Finish lays out header, chunk index, manifest, chunk bodies, and data
// pool contiguously and back-fills the header's sizes, offsets, and
// checksum. The recorder is not reusable afterwards.
func (r *Recorder) Finish() ([]byte, error) {
	if r.open {
		r.fail(ErrChunkOpen)
	}
	if r.err != nil {
		return nil, r.err
	}

	chunks := make([]rawChunk, len(r.chunks))
	for i := range r.chunks {
		c := &r.chunks[i]
		raw := rawChunk{id: c.id, kind: c.kind, body: c.body}
		if c.hasBounds {
			raw.flags = chunkFlagHasBounds
			raw.bounds = [4]float32{c.minX, c.minY, c.maxX, c.maxY}
		}
		chunks[i] = raw
	}
	return assemble(chunks, r.manifest, r.pool), nil
}

func putRect(p []byte, off int, r figdraw.Rect) {
	putF32(p, off, float32(r.X))
	putF32(p, off+4, float32(r.Y))
	putF32(p, off+8, float32(r.W))
	putF32(p, off+12, float32(r.H))
}
