package displaylist

import (
	"hash/crc32"

	"github.com/figdraw/figdraw"
)

// ChunkInfo is the decoded form of one chunk index entry.
type ChunkInfo struct {
	ID    uint32
	Kind  uint16
	Flags uint16

	// Bounds is the chunk's axis-aligned bounding box. Meaningful only
	// when HasBounds is true.
	Bounds    figdraw.Rect
	HasBounds bool

	// rawBounds preserves the entry's exact float32 bits so patching
	// carries unmodified chunks over byte-identically.
	rawBounds [4]float32

	offset int
	size   int
}

// PathRenderer is an optional render-context capability for vector path
// fills. A context that does not implement it gets the path's bounding
// box filled instead, so path content still occupies its footprint.
type PathRenderer interface {
	FillPath(verbs []byte, points []figdraw.Point, color figdraw.RGBA)
}

// Dispatcher replays a display list buffer into a RenderContext. It
// validates the entire buffer at construction, including every record
// and every data pool reference, so Dispatch never dereferences an
// unchecked offset. A Dispatcher holds the buffer read-only; many
// Dispatchers can share one buffer concurrently.
type Dispatcher struct {
	buf      []byte
	resolver ResourceResolver

	chunks   []ChunkInfo
	manifest []ManifestEntry
	poolOff  int
}

// NewDispatcher validates buf and constructs a dispatcher over it. The
// resolver maps recorded resource ids to live handles; pass nil to use
// ids as handles directly.
func NewDispatcher(buf []byte, resolver ResourceResolver) (*Dispatcher, error) {
	if resolver == nil {
		resolver = identityResolver{}
	}
	d := &Dispatcher{buf: buf, resolver: resolver}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) validate() error {
	buf := d.buf
	if len(buf) < headerSize {
		return ErrBufferTooSmall
	}
	if string(buf[offMagic:offMagic+4]) != magic {
		return ErrInvalidMagic
	}
	if getU16(buf, offVersion) != formatVersion || getU32(buf, offHeaderSize) != headerSize {
		return ErrVersionMismatch
	}
	if getU64(buf, offTotalSize) != uint64(len(buf)) {
		return ErrBufferTooSmall
	}
	if getU32(buf, offChecksum) != crc32.ChecksumIEEE(buf[headerSize:]) {
		return ErrChecksumMismatch
	}

	chunkCount := int(getU32(buf, offChunkCount))
	manifestCount := int(getU32(buf, offManifestCount))
	indexOff := int(getU64(buf, offChunkIndex))
	poolOff := int(getU64(buf, offDataPool))

	if poolOff < headerSize || poolOff > len(buf) {
		return ErrInvalidDataOffset
	}
	d.poolOff = poolOff

	if indexOff < headerSize || indexOff+chunkEntrySize*chunkCount > len(buf) {
		return ErrInvalidChunkIndex
	}
	manifestOff := indexOff + chunkEntrySize*chunkCount
	if manifestOff+manifestSize*manifestCount > len(buf) {
		return ErrInvalidChunkIndex
	}

	d.chunks = make([]ChunkInfo, chunkCount)
	for i := range d.chunks {
		ent := buf[indexOff+chunkEntrySize*i:]
		info := ChunkInfo{
			ID:     getU32(ent, entOffID),
			Kind:   getU16(ent, entOffKind),
			Flags:  getU16(ent, entOffFlags),
			offset: int(getU32(ent, entOffStart)),
			size:   int(getU32(ent, entOffSize)),
		}
		for j := range info.rawBounds {
			info.rawBounds[j] = getF32(ent, entOffBounds+4*j)
		}
		if info.Flags&chunkFlagHasBounds != 0 {
			minX := float64(info.rawBounds[0])
			minY := float64(info.rawBounds[1])
			maxX := float64(info.rawBounds[2])
			maxY := float64(info.rawBounds[3])
			info.Bounds = figdraw.NewRect(minX, minY, maxX-minX, maxY-minY)
			info.HasBounds = true
		}
		if info.offset < manifestOff+manifestSize*manifestCount ||
			info.offset+info.size > poolOff ||
			info.size%recordAlign != 0 {
			return ErrInvalidChunkIndex
		}
		if err := validateBody(buf[info.offset:info.offset+info.size], len(buf)-poolOff); err != nil {
			return err
		}
		d.chunks[i] = info
	}

	d.manifest = make([]ManifestEntry, manifestCount)
	for i := range d.manifest {
		ent := buf[manifestOff+manifestSize*i:]
		d.manifest[i] = ManifestEntry{
			ID:       getU32(ent, manOffID),
			Kind:     ResourceKind(getU16(ent, manOffKind)),
			Flags:    getU16(ent, manOffFlags),
			Length:   getU32(ent, manOffLength),
			Checksum: getU32(ent, manOffChecksum),
		}
	}
	return nil
}

// validateBody walks a chunk body checking record framing and every data
// pool reference against the pool's extent.
func validateBody(body []byte, poolLen int) error {
	for at := 0; at < len(body); {
		if at+recPayload > len(body) {
			return ErrInvalidChunkIndex
		}
		op := Opcode(getU32(body, at+recOffOp))
		size := int(getU32(body, at+recOffSize))
		if size < recPayload || size%recordAlign != 0 || at+size > len(body) {
			return ErrInvalidChunkIndex
		}
		if want := op.recordSize(); want != 0 && size != want {
			return ErrInvalidChunkIndex
		}
		p := body[at+recPayload : at+size]
		switch op {
		case OpDrawGlyphs:
			count := int(getU32(p, 12))
			goff := int(getU32(p, 16))
			poff := int(getU32(p, 20))
			if goff+4*count > poolLen || poff+8*count > poolLen {
				return ErrInvalidDataOffset
			}
		case OpFillPath:
			verbCount := int(getU32(p, 4))
			pointCount := int(getU32(p, 8))
			voff := int(getU32(p, 12))
			poff := int(getU32(p, 16))
			if voff+verbCount > poolLen || poff+8*pointCount > poolLen {
				return ErrInvalidDataOffset
			}
		}
		at += size
	}
	return nil
}

// Version returns the buffer's format version.
func (d *Dispatcher) Version() uint16 {
	return getU16(d.buf, offVersion)
}

// Checksum returns the buffer's recorded checksum.
func (d *Dispatcher) Checksum() uint32 {
	return getU32(d.buf, offChecksum)
}

// ChunkCount returns the number of chunks.
func (d *Dispatcher) ChunkCount() int {
	return len(d.chunks)
}

// Chunks returns decoded chunk index information in buffer order.
func (d *Dispatcher) Chunks() []ChunkInfo {
	out := make([]ChunkInfo, len(d.chunks))
	copy(out, d.chunks)
	return out
}

// Manifest returns the decoded resource manifest.
func (d *Dispatcher) Manifest() []ManifestEntry {
	out := make([]ManifestEntry, len(d.manifest))
	copy(out, d.manifest)
	return out
}

// Buffer returns the underlying validated buffer. Callers must treat it
// as read-only.
func (d *Dispatcher) Buffer() []byte {
	return d.buf
}

// ChunkBody returns the raw record bytes of a chunk, for re-packaging
// into a patch. The slice aliases the buffer; treat it as read-only.
func (d *Dispatcher) ChunkBody(id uint32) ([]byte, error) {
	for i := range d.chunks {
		if d.chunks[i].ID == id {
			c := &d.chunks[i]
			return d.buf[c.offset : c.offset+c.size], nil
		}
	}
	return nil, ErrUnknownChunk
}

// VisibleChunks returns the ids of chunks whose bounding box intersects
// the view rectangle, in buffer order. Chunks without a recorded box are
// always included; absence of bounds means "unknown", not "empty".
func (d *Dispatcher) VisibleChunks(view figdraw.Rect) []uint32 {
	var ids []uint32
	for i := range d.chunks {
		c := &d.chunks[i]
		if !c.HasBounds || view.Intersects(c.Bounds) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Dispatch replays every chunk in buffer order into ctx.
func (d *Dispatcher) Dispatch(ctx figdraw.RenderContext) error {
	for i := range d.chunks {
		d.dispatchBody(&d.chunks[i], ctx)
	}
	return nil
}

// DispatchChunk replays a single chunk by id.
func (d *Dispatcher) DispatchChunk(id uint32, ctx figdraw.RenderContext) error {
	for i := range d.chunks {
		if d.chunks[i].ID == id {
			d.dispatchBody(&d.chunks[i], ctx)
			return nil
		}
	}
	return ErrUnknownChunk
}

func (d *Dispatcher) dispatchBody(c *ChunkInfo, ctx figdraw.RenderContext) {
	body := d.buf[c.offset : c.offset+c.size]
	pool := d.buf[d.poolOff:]
	for at := 0; at < len(body); {
		op := Opcode(getU32(body, at+recOffOp))
		size := int(getU32(body, at+recOffSize))
		p := body[at+recPayload : at+size]
		switch op {
		case OpFillRect:
			ctx.FillRect(getRect(p, 0), figdraw.PackedColor(getU32(p, 16)).Unpack())
		case OpStrokeRect:
			ctx.StrokeRect(getRect(p, 0), float64(getF32(p, 16)),
				figdraw.PackedColor(getU32(p, 20)).Unpack())
		case OpSetTransform:
			t := figdraw.Identity()
			t.M[0] = float64(getF32(p, 0))
			t.M[4] = float64(getF32(p, 4))
			t.M[1] = float64(getF32(p, 8))
			t.M[5] = float64(getF32(p, 12))
			t.M[3] = float64(getF32(p, 16))
			t.M[7] = float64(getF32(p, 20))
			ctx.SetTransform(t)
		case OpSetBlendMode:
			ctx.SetBlendMode(figdraw.BlendMode(getU32(p, 0)))
		case OpTranslate:
			ctx.Translate(float64(getF32(p, 0)), float64(getF32(p, 4)))
		case OpClipRect:
			ctx.ClipRect(getRect(p, 0))
		case OpDrawImage:
			d.dispatchImage(p, ctx)
		case OpDrawGlyphs:
			d.dispatchGlyphs(p, pool, ctx)
		case OpFillPath:
			d.dispatchPath(p, pool, ctx)
		case OpSave:
			ctx.SaveState()
		case OpRestore:
			ctx.RestoreState()
		}
		at += size
	}
}

func (d *Dispatcher) dispatchImage(p []byte, ctx figdraw.RenderContext) {
	id := getU32(p, 0)
	filter := figdraw.FilterMode(getU32(p, 4))
	dst := getRect(p, 8)
	src := getRect(p, 24)

	if d.resolver.LoadState(id) != LoadLoaded {
		ctx.FillRect(dst, placeholderColor)
		return
	}
	handle, err := d.resolver.ResolveImage(id)
	if err != nil {
		ctx.FillRect(dst, placeholderColor)
		return
	}
	ctx.DrawImage(handle, dst, src, filter)
}

func (d *Dispatcher) dispatchGlyphs(p, pool []byte, ctx figdraw.RenderContext) {
	id := getU32(p, 0)
	mode := figdraw.GlyphRenderMode(getU32(p, 4))
	color := figdraw.PackedColor(getU32(p, 8)).Unpack()
	count := int(getU32(p, 12))
	goff := int(getU32(p, 16))
	poff := int(getU32(p, 20))

	positions := make([]figdraw.Point, count)
	for i := range positions {
		positions[i] = figdraw.Pt(
			float64(getF32(pool, poff+8*i)),
			float64(getF32(pool, poff+8*i+4)))
	}

	if d.resolver.LoadState(id) != LoadLoaded {
		ctx.FillRect(runBounds(positions), placeholderColor)
		return
	}
	handle, err := d.resolver.ResolveFont(id)
	if err != nil {
		ctx.FillRect(runBounds(positions), placeholderColor)
		return
	}

	glyphs := make([]uint32, count)
	for i := range glyphs {
		glyphs[i] = getU32(pool, goff+4*i)
	}
	ctx.DrawGlyphs(handle, mode, glyphs, positions, color)
}

func (d *Dispatcher) dispatchPath(p, pool []byte, ctx figdraw.RenderContext) {
	color := figdraw.PackedColor(getU32(p, 0)).Unpack()
	verbCount := int(getU32(p, 4))
	pointCount := int(getU32(p, 8))
	voff := int(getU32(p, 12))
	poff := int(getU32(p, 16))

	points := make([]figdraw.Point, pointCount)
	for i := range points {
		points[i] = figdraw.Pt(
			float64(getF32(pool, poff+8*i)),
			float64(getF32(pool, poff+8*i+4)))
	}
	if pr, ok := ctx.(PathRenderer); ok {
		verbs := make([]byte, verbCount)
		copy(verbs, pool[voff:voff+verbCount])
		pr.FillPath(verbs, points, color)
		return
	}
	ctx.FillRect(runBounds(points), color)
}

// runBounds returns the bounding box of a point run, used for placeholder
// and fallback fills.
func runBounds(pts []figdraw.Point) figdraw.Rect {
	if len(pts) == 0 {
		return figdraw.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, pt := range pts[1:] {
		minX = min(minX, pt.X)
		minY = min(minY, pt.Y)
		maxX = max(maxX, pt.X)
		maxY = max(maxY, pt.Y)
	}
	return figdraw.NewRect(minX, minY, maxX-minX, maxY-minY)
}

func getRect(p []byte, off int) figdraw.Rect {
	return figdraw.NewRect(
		float64(getF32(p, off)),
		float64(getF32(p, off+4)),
		float64(getF32(p, off+8)),
		float64(getF32(p, off+12)))
}
