package displaylist

import (
	"github.com/figdraw/figdraw"
)

// RecordingContext is a RenderContext that captures draw calls into a
// Recorder instead of rasterizing them. It bridges the live renderer to
// the wire format: a scene pass executed against a RecordingContext
// produces a display list buffer that replays the same calls later,
// elsewhere, or on another process.
//
// Resource handles pass through as recorded ids; the consumer's
// ResourceResolver maps them back to live handles at dispatch time.
type RecordingContext struct {
	rec *Recorder
}

var _ figdraw.RenderContext = (*RecordingContext)(nil)

// NewRecordingContext wraps a recorder. The caller still owns chunk
// boundaries and Finish; the context only emits ops.
func NewRecordingContext(rec *Recorder) *RecordingContext {
	return &RecordingContext{rec: rec}
}

func (c *RecordingContext) FillRect(rect figdraw.Rect, color figdraw.RGBA) {
	c.rec.FillRect(rect, color)
}

func (c *RecordingContext) StrokeRect(rect figdraw.Rect, width float64, color figdraw.RGBA) {
	c.rec.StrokeRect(rect, width, color)
}

func (c *RecordingContext) SetTransform(t figdraw.Transform) {
	c.rec.SetTransform(t)
}

func (c *RecordingContext) SetBlendMode(mode figdraw.BlendMode) {
	c.rec.SetBlendMode(mode)
}

func (c *RecordingContext) Translate(dx, dy float64) {
	c.rec.Translate(dx, dy)
}

func (c *RecordingContext) ClipRect(rect figdraw.Rect) {
	c.rec.ClipRect(rect)
}

func (c *RecordingContext) DrawImage(handle figdraw.ImageHandle, dst, src figdraw.Rect, filter figdraw.FilterMode) {
	c.rec.DrawImage(uint32(handle), dst, src, filter)
}

func (c *RecordingContext) DrawGlyphs(font figdraw.FontHandle, mode figdraw.GlyphRenderMode, glyphs []uint32, positions []figdraw.Point, color figdraw.RGBA) {
	c.rec.DrawGlyphs(uint32(font), mode, glyphs, positions, color)
}

func (c *RecordingContext) SaveState() {
	c.rec.Save()
}

func (c *RecordingContext) RestoreState() {
	c.rec.Restore()
}
