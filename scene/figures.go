package scene

import (
	"github.com/figdraw/figdraw"
)

// RectangleFigure is a filled rectangle with an optional stroked outline.
type RectangleFigure struct {
	BaseFigure
	Fill        figdraw.RGBA
	Stroke      figdraw.RGBA
	StrokeWidth float64
}

// NewRectangleFigure creates a rectangle figure with the given bounds and
// fill color.
func NewRectangleFigure(x, y, w, h float64, fill figdraw.RGBA) *RectangleFigure {
	f := &RectangleFigure{Fill: fill}
	f.SetBounds(figdraw.NewRect(x, y, w, h))
	return f
}

// PaintFigure fills the bounds and strokes the outline when a stroke
// width is set.
func (f *RectangleFigure) PaintFigure(ctx figdraw.RenderContext) {
	b := f.Bounds()
	ctx.FillRect(b, f.Fill)
	if f.StrokeWidth > 0 {
		ctx.StrokeRect(b, f.StrokeWidth, f.Stroke)
	}
}

// LabelFigure draws a run of pre-shaped glyphs. Shaping is not this
// package's concern: the caller supplies glyph ids and pen positions
// produced by an external shaper, and the figure forwards them to the
// render context.
type LabelFigure struct {
	BaseFigure
	Font      figdraw.FontHandle
	Mode      figdraw.GlyphRenderMode
	Glyphs    []uint32
	Positions []figdraw.Point
	Color     figdraw.RGBA
}

// NewLabelFigure creates a label at the given bounds using the given font.
func NewLabelFigure(x, y, w, h float64, font figdraw.FontHandle) *LabelFigure {
	f := &LabelFigure{Font: font, Color: figdraw.Black}
	f.SetBounds(figdraw.NewRect(x, y, w, h))
	return f
}

// SetText replaces the glyph run.
func (f *LabelFigure) SetText(glyphs []uint32, positions []figdraw.Point) {
	f.Glyphs = glyphs
	f.Positions = positions
}

// PaintFigure draws the glyph run. Positions share the bounds' frame; the
// shaper that produced them placed each pen relative to the label's
// position.
func (f *LabelFigure) PaintFigure(ctx figdraw.RenderContext) {
	if len(f.Glyphs) == 0 {
		return
	}
	ctx.DrawGlyphs(f.Font, f.Mode, f.Glyphs, f.Positions, f.Color)
}

// ViewportFigure is a scrollable coordinate root: its descendants' bounds
// are relative to the viewport's client area, and painting is clipped to
// it. Scrolling moves the view offset without touching any child bounds.
type ViewportFigure struct {
	BaseFigure
	insets figdraw.Insets
	view   figdraw.Point
}

// NewViewportFigure creates a viewport with the given bounds and insets.
func NewViewportFigure(x, y, w, h float64, insets figdraw.Insets) *ViewportFigure {
	f := &ViewportFigure{insets: insets}
	f.SetBounds(figdraw.NewRect(x, y, w, h))
	return f
}

// UseLocalCoordinates reports true: the viewport is a coordinate root.
func (f *ViewportFigure) UseLocalCoordinates() bool { return true }

// ClipsChildren reports true: content outside the client area is clipped.
func (f *ViewportFigure) ClipsChildren() bool { return true }

// ClientArea returns the local footprint shrunk by the insets and shifted
// by the scroll offset.
func (f *ViewportFigure) ClientArea() figdraw.Rect {
	b := f.Bounds()
	area := figdraw.NewRect(0, 0, b.W, b.H).Inset(f.insets)
	return area.Translate(-f.view.X, -f.view.Y)
}

// Insets returns the viewport's border insets.
func (f *ViewportFigure) Insets() figdraw.Insets { return f.insets }

// ScrollTo sets the view offset.
func (f *ViewportFigure) ScrollTo(x, y float64) {
	f.view = figdraw.Pt(x, y)
}

// ViewLocation returns the current view offset.
func (f *ViewportFigure) ViewLocation() figdraw.Point {
	return f.view
}

// ClickableFigure wraps another figure with press feedback: while armed, the
// highlight is drawn regardless of selection-style callers, and the border
// of the wrapped figure is preserved.
type ClickableFigure struct {
	Figure
	armed bool
}

// NewClickableFigure wraps fig.
func NewClickableFigure(fig Figure) *ClickableFigure {
	return &ClickableFigure{Figure: fig}
}

// SetArmed sets the pressed-feedback state.
func (f *ClickableFigure) SetArmed(armed bool) {
	f.armed = armed
}

// Armed reports the pressed-feedback state.
func (f *ClickableFigure) Armed() bool {
	return f.armed
}

// PaintBorder draws the wrapped border, plus the highlight while armed.
func (f *ClickableFigure) PaintBorder(ctx figdraw.RenderContext) {
	f.Figure.PaintBorder(ctx)
	if f.armed {
		f.Figure.PaintHighlight(ctx)
	}
}
