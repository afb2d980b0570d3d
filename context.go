package figdraw

// ImageHandle identifies an image resource owned by the rendering backend.
// The core never dereferences handles; it only carries them through task
// queues and display-list records.
type ImageHandle uint32

// FontHandle identifies a font resource owned by the rendering backend.
type FontHandle uint32

// FilterMode selects the sampling filter for image draws.
type FilterMode uint32

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// BlendMode selects the compositing mode for subsequent draws.
type BlendMode uint32

const (
	BlendSourceOver BlendMode = iota
	BlendClear
	BlendSource
	BlendDestinationOver
	BlendMultiply
	BlendScreen
	BlendPlus
)

// GlyphRenderMode selects how glyphs are rasterized by the backend.
type GlyphRenderMode uint32

const (
	GlyphRenderGrayscale GlyphRenderMode = iota
	GlyphRenderSubpixel
	GlyphRenderBitmap
)

// RenderContext is the capability consumed by the trampoline renderer and
// the display-list dispatcher. The core never implements it; a GPU or
// software backend does.
//
// State is owned by the context instance, never by package-level variables:
// SaveState/RestoreState bracket any transform, clip, or blend changes made
// between them. Implementations typically back SaveState/RestoreState with a
// TransformStack.
type RenderContext interface {
	FillRect(rect Rect, color RGBA)
	StrokeRect(rect Rect, width float64, color RGBA)
	SetTransform(t Transform)
	SetBlendMode(mode BlendMode)
	Translate(dx, dy float64)
	ClipRect(rect Rect)
	DrawImage(handle ImageHandle, dst, src Rect, filter FilterMode)
	DrawGlyphs(font FontHandle, mode GlyphRenderMode, glyphs []uint32, positions []Point, color RGBA)
	SaveState()
	RestoreState()
}
