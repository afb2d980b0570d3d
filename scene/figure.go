package scene

import (
	"github.com/figdraw/figdraw"
)

// Figure is the appearance capability of a block: geometry, paint behavior,
// and coordinate-mode flags. Figures are stateless with respect to the tree;
// they never see their block's transform, parent, or children.
//
// Coordinate conventions for the paint methods: every paint method draws
// at the figure's bounds rectangle in the frame of its nearest
// coordinate-root ancestor. The renderer never translates to an ordinary
// figure's bounds origin — Graph.PrimTranslate keeps descendant bounds
// absolute, so the frame passes through unchanged — and only shifts the
// frame for a coordinate root's children. PaintBorder and PaintHighlight
// run after the renderer has restored the parent frame, keeping borders
// and highlights outside any client-area clip.
type Figure interface {
	// Bounds returns the figure's rectangle. When UseLocalCoordinates is
	// false the origin is absolute within the nearest coordinate root's
	// frame and Graph.PrimTranslate keeps descendants in sync; when true
	// the origin is relative to this figure's parent and translation is
	// not propagated into the subtree.
	Bounds() figdraw.Rect

	// SetBounds replaces the figure's rectangle. The graph calls this during
	// translation propagation and layout; user code should go through
	// Graph.SetBounds so deltas propagate.
	SetBounds(figdraw.Rect)

	// PaintFigure paints the figure's content at its bounds rectangle.
	PaintFigure(ctx figdraw.RenderContext)

	// PaintBorder paints the figure's border in the parent frame.
	// The default is a no-op.
	PaintBorder(ctx figdraw.RenderContext)

	// PaintHighlight paints the selection affordance in the parent frame.
	// The default draws an outline around the bounds.
	PaintHighlight(ctx figdraw.RenderContext)

	// UseLocalCoordinates reports whether descendants' bounds are expressed
	// relative to this figure (making it a coordinate root). Default false.
	UseLocalCoordinates() bool

	// ClipsChildren reports whether the renderer should clip children to the
	// client area. Default false: most figures opt out of clipping.
	ClipsChildren() bool

	// ClientArea returns the region children occupy, relative to the bounds
	// origin. Default is the full (0, 0, W, H) footprint. The renderer
	// offsets it by the bounds origin for ordinary figures; for a
	// coordinate root it already lives in the children's frame.
	ClientArea() figdraw.Rect

	// Insets returns the border insets between bounds and client area.
	Insets() figdraw.Insets
}

// highlightColor is the default selection outline color.
var highlightColor = figdraw.RGBA{R: 0.953, G: 0.612, B: 0.071, A: 1}

// BaseFigure is a minimal Figure carrying only bounds. Concrete figures
// embed it and override the methods they care about.
type BaseFigure struct {
	bounds figdraw.Rect
}

// NewBaseFigure creates a BaseFigure with the given bounds.
func NewBaseFigure(x, y, w, h float64) *BaseFigure {
	return &BaseFigure{bounds: figdraw.NewRect(x, y, w, h)}
}

// Bounds returns the figure's rectangle.
func (f *BaseFigure) Bounds() figdraw.Rect {
	return f.bounds
}

// SetBounds replaces the figure's rectangle.
func (f *BaseFigure) SetBounds(r figdraw.Rect) {
	f.bounds = r
}

// PaintFigure is a no-op.
func (f *BaseFigure) PaintFigure(figdraw.RenderContext) {}

// PaintBorder is a no-op.
func (f *BaseFigure) PaintBorder(figdraw.RenderContext) {}

// PaintHighlight draws the default selection outline around the bounds.
func (f *BaseFigure) PaintHighlight(ctx figdraw.RenderContext) {
	b := f.bounds
	ctx.StrokeRect(figdraw.NewRect(b.X-2, b.Y-2, b.W+4, b.H+4), 2, highlightColor)
}

// UseLocalCoordinates reports false.
func (f *BaseFigure) UseLocalCoordinates() bool { return false }

// ClipsChildren reports false.
func (f *BaseFigure) ClipsChildren() bool { return false }

// ClientArea returns the full local footprint.
func (f *BaseFigure) ClientArea() figdraw.Rect {
	return figdraw.NewRect(0, 0, f.bounds.W, f.bounds.H)
}

// Insets returns zero insets.
func (f *BaseFigure) Insets() figdraw.Insets { return figdraw.Insets{} }
