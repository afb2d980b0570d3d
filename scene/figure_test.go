package scene

import (
	"testing"

	"github.com/figdraw/figdraw"
)

// paintCall records one RenderContext invocation for assertions.
type paintCall struct {
	op    string
	rect  figdraw.Rect
	width float64
	color figdraw.RGBA
}

// mockContext records paint calls; the scene package tests assert against
// the recorded sequence instead of pixels.
type mockContext struct {
	calls []paintCall
}

func (m *mockContext) FillRect(r figdraw.Rect, c figdraw.RGBA) {
	m.calls = append(m.calls, paintCall{op: "fill", rect: r, color: c})
}

func (m *mockContext) StrokeRect(r figdraw.Rect, w float64, c figdraw.RGBA) {
	m.calls = append(m.calls, paintCall{op: "stroke", rect: r, width: w, color: c})
}

func (m *mockContext) SetTransform(figdraw.Transform) {}
func (m *mockContext) SetBlendMode(figdraw.BlendMode) {}
func (m *mockContext) Translate(dx, dy float64)       {}
func (m *mockContext) ClipRect(figdraw.Rect)          {}
func (m *mockContext) SaveState()                     {}
func (m *mockContext) RestoreState()                  {}

func (m *mockContext) DrawImage(figdraw.ImageHandle, figdraw.Rect, figdraw.Rect, figdraw.FilterMode) {
	m.calls = append(m.calls, paintCall{op: "image"})
}

func (m *mockContext) DrawGlyphs(_ figdraw.FontHandle, _ figdraw.GlyphRenderMode, glyphs []uint32, _ []figdraw.Point, c figdraw.RGBA) {
	m.calls = append(m.calls, paintCall{op: "glyphs", width: float64(len(glyphs)), color: c})
}

func TestRectangleFigurePaint(t *testing.T) {
	fig := NewRectangleFigure(10, 20, 100, 50, figdraw.RGB(1, 0, 0))
	ctx := &mockContext{}
	fig.PaintFigure(ctx)

	if len(ctx.calls) != 1 {
		t.Fatalf("calls = %d, want 1 fill", len(ctx.calls))
	}
	// Content paints at the bounds rectangle; the renderer does not
	// translate to an ordinary figure's origin.
	if got := ctx.calls[0]; got.op != "fill" || got.rect != figdraw.NewRect(10, 20, 100, 50) {
		t.Errorf("fill = %+v", got)
	}

	fig.Stroke = figdraw.Black
	fig.StrokeWidth = 2
	ctx.calls = nil
	fig.PaintFigure(ctx)
	if len(ctx.calls) != 2 || ctx.calls[1].op != "stroke" || ctx.calls[1].width != 2 {
		t.Errorf("stroked paint calls = %+v", ctx.calls)
	}
}

func TestBaseFigureHighlight(t *testing.T) {
	fig := NewBaseFigure(10, 10, 20, 20)
	ctx := &mockContext{}
	fig.PaintHighlight(ctx)
	if len(ctx.calls) != 1 || ctx.calls[0].op != "stroke" {
		t.Fatalf("highlight calls = %+v", ctx.calls)
	}
	// Highlight paints in the parent frame, outset around the bounds.
	if got := ctx.calls[0].rect; got != figdraw.NewRect(8, 8, 24, 24) {
		t.Errorf("highlight rect = %+v, want (8, 8, 24, 24)", got)
	}
}

func TestLabelFigurePaint(t *testing.T) {
	fig := NewLabelFigure(0, 0, 80, 16, figdraw.FontHandle(3))
	ctx := &mockContext{}

	fig.PaintFigure(ctx)
	if len(ctx.calls) != 0 {
		t.Error("empty label painted glyphs")
	}

	fig.SetText([]uint32{12, 13, 14}, []figdraw.Point{{X: 0}, {X: 8}, {X: 16}})
	fig.PaintFigure(ctx)
	if len(ctx.calls) != 1 || ctx.calls[0].op != "glyphs" || ctx.calls[0].width != 3 {
		t.Errorf("glyph calls = %+v", ctx.calls)
	}
}

func TestViewportFigureClientArea(t *testing.T) {
	fig := NewViewportFigure(50, 50, 200, 100, figdraw.UniformInsets(5))
	if !fig.UseLocalCoordinates() || !fig.ClipsChildren() {
		t.Error("viewport must be a clipping coordinate root")
	}
	if got := fig.ClientArea(); got != figdraw.NewRect(5, 5, 190, 90) {
		t.Errorf("ClientArea = %+v, want inset footprint", got)
	}

	fig.ScrollTo(30, 10)
	if got := fig.ClientArea(); got != figdraw.NewRect(-25, -5, 190, 90) {
		t.Errorf("scrolled ClientArea = %+v", got)
	}
	if got := fig.ViewLocation(); got != figdraw.Pt(30, 10) {
		t.Errorf("ViewLocation = %+v", got)
	}
}

func TestClickableFigure(t *testing.T) {
	inner := NewRectangleFigure(0, 0, 40, 20, figdraw.White)
	fig := NewClickableFigure(inner)

	ctx := &mockContext{}
	fig.PaintBorder(ctx)
	if len(ctx.calls) != 0 {
		t.Errorf("unarmed border painted: %+v", ctx.calls)
	}

	fig.SetArmed(true)
	if !fig.Armed() {
		t.Error("Armed() = false after SetArmed(true)")
	}
	fig.PaintBorder(ctx)
	if len(ctx.calls) != 1 || ctx.calls[0].op != "stroke" {
		t.Errorf("armed border calls = %+v", ctx.calls)
	}
}
