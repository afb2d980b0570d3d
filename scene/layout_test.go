package scene

import (
	"testing"

	"github.com/figdraw/figdraw"
)

func TestFillLayoutArrange(t *testing.T) {
	l := FillLayout{Margin: figdraw.UniformInsets(10)}
	children := []ChildBounds{
		{Bounds: figdraw.NewRect(0, 0, 5, 5)},
		{Bounds: figdraw.NewRect(50, 50, 5, 5)},
	}
	l.Arrange(figdraw.NewRect(0, 0, 100, 80), children)
	want := figdraw.NewRect(10, 10, 80, 60)
	for i, c := range children {
		if c.Bounds != want {
			t.Errorf("child %d bounds = %+v, want %+v", i, c.Bounds, want)
		}
	}
}

func TestXYLayoutArrange(t *testing.T) {
	l := XYLayout{}
	children := []ChildBounds{{Bounds: figdraw.NewRect(5, 5, 10, 10)}}
	l.Arrange(figdraw.NewRect(100, 200, 50, 50), children)
	if got := children[0].Bounds; got != figdraw.NewRect(105, 205, 10, 10) {
		t.Errorf("bounds = %+v, want shifted by container origin", got)
	}
}

func TestXYLayoutPreferredSize(t *testing.T) {
	l := XYLayout{}
	got := l.PreferredSize(figdraw.NewRect(0, 0, 10, 10), []figdraw.Rect{
		figdraw.NewRect(0, 0, 30, 10),
		figdraw.NewRect(20, 40, 10, 10),
	})
	if got != (figdraw.Size{Width: 30, Height: 50}) {
		t.Errorf("PreferredSize = %+v, want (30, 50)", got)
	}
}

func TestGraphRevalidate(t *testing.T) {
	g := New()
	contents := g.SetContents(NewRectangleFigure(0, 0, 100, 100, figdraw.White))
	a, _ := g.AddChildTo(contents, NewRectangleFigure(0, 0, 5, 5, figdraw.Black))
	grand, _ := g.AddChildTo(a, NewRectangleFigure(2, 2, 1, 1, figdraw.Black))

	g.SetLayout(FillLayout{})
	if g.LayoutValid() {
		t.Fatal("SetLayout should invalidate")
	}
	g.Revalidate(figdraw.NewRect(0, 0, 100, 100))
	if !g.LayoutValid() {
		t.Fatal("Revalidate did not validate")
	}

	ab, _ := g.Block(a)
	if got := ab.Bounds(); got != figdraw.NewRect(0, 0, 100, 100) {
		t.Errorf("arranged bounds = %+v, want container", got)
	}
	// Position deltas propagate to the subtree through SetBounds.
	gb, _ := g.Block(grand)
	if got := gb.Bounds(); got != figdraw.NewRect(2, 2, 1, 1) {
		t.Errorf("grandchild bounds = %+v (no offset expected here)", got)
	}
}

func TestFillLayoutPreferredSize(t *testing.T) {
	l := FillLayout{Margin: figdraw.UniformInsets(4)}
	got := l.PreferredSize(figdraw.Rect{}, []figdraw.Rect{
		figdraw.NewRect(0, 0, 20, 30),
		figdraw.NewRect(0, 0, 40, 10),
	})
	if got != (figdraw.Size{Width: 48, Height: 38}) {
		t.Errorf("PreferredSize = %+v, want (48, 38)", got)
	}
}
