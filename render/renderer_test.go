package render

import (
	"fmt"
	"testing"

	"github.com/figdraw/figdraw"
	"github.com/figdraw/figdraw/scene"
)

// mockContext records the order of state and paint calls. Translate
// offsets accumulate through the save/restore stack so fills are recorded
// in device space, where double-applied frames would show up.
type mockContext struct {
	ops   []string
	fills []figdraw.Rect
	depth int
	min   int

	ox, oy float64
	saved  []figdraw.Point
}

func (m *mockContext) record(op string) { m.ops = append(m.ops, op) }

func (m *mockContext) FillRect(r figdraw.Rect, _ figdraw.RGBA) {
	m.record("fill")
	m.fills = append(m.fills, r.Translate(m.ox, m.oy))
}
func (m *mockContext) StrokeRect(figdraw.Rect, float64, figdraw.RGBA) { m.record("stroke") }
func (m *mockContext) SetTransform(figdraw.Transform)                 { m.record("setTransform") }
func (m *mockContext) SetBlendMode(figdraw.BlendMode)                 { m.record("blend") }
func (m *mockContext) Translate(dx, dy float64) {
	m.record(fmt.Sprintf("translate(%g,%g)", dx, dy))
	m.ox += dx
	m.oy += dy
}
func (m *mockContext) ClipRect(r figdraw.Rect) {
	m.record(fmt.Sprintf("clip(%g,%g,%g,%g)", r.X, r.Y, r.W, r.H))
}
func (m *mockContext) DrawImage(figdraw.ImageHandle, figdraw.Rect, figdraw.Rect, figdraw.FilterMode) {
	m.record("image")
}
func (m *mockContext) DrawGlyphs(figdraw.FontHandle, figdraw.GlyphRenderMode, []uint32, []figdraw.Point, figdraw.RGBA) {
	m.record("glyphs")
}
func (m *mockContext) SaveState() {
	m.record("save")
	m.depth++
	m.saved = append(m.saved, figdraw.Pt(m.ox, m.oy))
}
func (m *mockContext) RestoreState() {
	m.record("restore")
	m.depth--
	if m.depth < m.min {
		m.min = m.depth
	}
	if n := len(m.saved); n > 0 {
		m.ox, m.oy = m.saved[n-1].X, m.saved[n-1].Y
		m.saved = m.saved[:n-1]
	}
}

func mustAdd(t *testing.T, g *scene.Graph, parent scene.BlockID, fig scene.Figure) scene.BlockID {
	t.Helper()
	id, err := g.AddChildTo(parent, fig)
	if err != nil {
		t.Fatalf("AddChildTo: %v", err)
	}
	return id
}

func countKind(tasks []PaintTask, k TaskKind) int {
	n := 0
	for _, task := range tasks {
		if task.Kind == k {
			n++
		}
	}
	return n
}

func TestTasksChildOrder(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	a := mustAdd(t, g, contents, scene.NewRectangleFigure(10, 10, 50, 50, figdraw.Black))
	b := mustAdd(t, g, contents, scene.NewRectangleFigure(20, 20, 50, 50, figdraw.Black))
	c := mustAdd(t, g, contents, scene.NewRectangleFigure(30, 30, 50, 50, figdraw.Black))

	r := New(g)
	tasks := r.Tasks(contents)

	// PaintFigure tasks appear in insertion order: later siblings later in
	// the queue, so they paint on top.
	var paints []scene.BlockID
	for _, task := range tasks {
		if task.Kind == TaskPaintFigure {
			paints = append(paints, task.Block)
		}
	}
	want := []scene.BlockID{contents, a, b, c}
	if len(paints) != len(want) {
		t.Fatalf("got %d PaintFigure tasks, want %d", len(paints), len(want))
	}
	for i := range want {
		if paints[i] != want[i] {
			t.Errorf("paint %d: got %v, want %v", i, paints[i], want[i])
		}
	}
}

func TestTasksSaveRestoreBalance(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	parent := mustAdd(t, g, contents, scene.NewRectangleFigure(10, 10, 200, 200, figdraw.Black))
	child := mustAdd(t, g, parent, scene.NewRectangleFigure(5, 5, 50, 50, figdraw.Black))
	mustAdd(t, g, child, scene.NewRectangleFigure(1, 1, 10, 10, figdraw.Black))

	tasks := New(g).Tasks(contents)

	if saves, restores := countKind(tasks, TaskSave), countKind(tasks, TaskRestore); saves != restores {
		t.Errorf("save/restore imbalance: %d saves, %d restores", saves, restores)
	}

	// No prefix of the queue restores more states than it saved.
	depth := 0
	for i, task := range tasks {
		switch task.Kind {
		case TaskSave:
			depth++
		case TaskRestore:
			depth--
		}
		if depth < 0 {
			t.Fatalf("task %d: restore below the outermost save", i)
		}
	}
}

func TestTasksTranslateUsesRuntimeTransformOnly(t *testing.T) {
	// An ordinary block's bounds origin is never composed into the frame;
	// the Translate task carries only the runtime transform translation.
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	id := mustAdd(t, g, contents, scene.NewRectangleFigure(10, 20, 50, 50, figdraw.Black))
	blk, _ := g.Block(id)
	blk.Translate(3, 4)

	tasks := New(g).Tasks(id)
	if len(tasks) < 3 || tasks[0].Kind != TaskSave || tasks[1].Kind != TaskTranslate ||
		tasks[2].Kind != TaskPaintFigure {
		t.Fatalf("queue does not start with Save, Translate, PaintFigure: %v", tasks)
	}
	if tasks[1].X != 3 || tasks[1].Y != 4 {
		t.Errorf("translate = (%g, %g), want (3, 4)", tasks[1].X, tasks[1].Y)
	}
}

func TestTasksCoordinateRootShiftsChildFrame(t *testing.T) {
	// A coordinate root's children carry bounds relative to it, so a second
	// Translate to the bounds origin follows the root's own paint.
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	viewport := mustAdd(t, g, contents,
		scene.NewViewportFigure(10, 10, 100, 100, figdraw.UniformInsets(2)))

	tasks := New(g).Tasks(viewport)
	if len(tasks) < 5 || tasks[0].Kind != TaskSave || tasks[1].Kind != TaskTranslate ||
		tasks[2].Kind != TaskPaintFigure || tasks[3].Kind != TaskTranslate ||
		tasks[4].Kind != TaskClip {
		t.Fatalf("queue = %v, want Save, Translate, PaintFigure, Translate, Clip", tasks)
	}
	if tasks[3].X != 10 || tasks[3].Y != 10 {
		t.Errorf("child-frame translate = (%g, %g), want (10, 10)", tasks[3].X, tasks[3].Y)
	}
}

func TestTasksClipOnlyForClippingFigures(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	viewport := mustAdd(t, g, contents,
		scene.NewViewportFigure(10, 10, 100, 100, figdraw.UniformInsets(2)))
	mustAdd(t, g, contents, scene.NewRectangleFigure(0, 0, 50, 50, figdraw.Black))

	r := New(g)
	if n := countKind(r.Tasks(contents), TaskClip); n != 1 {
		t.Fatalf("got %d Clip tasks, want 1", n)
	}

	vt := r.Tasks(viewport)
	foundClip := false
	for _, task := range vt {
		if task.Kind == TaskClip {
			foundClip = true
			// Client area: 100x100 footprint inset by 2.
			if task.X != 2 || task.Y != 2 || task.W != 96 || task.H != 96 {
				t.Errorf("clip = (%g,%g,%g,%g), want (2,2,96,96)",
					task.X, task.Y, task.W, task.H)
			}
		}
	}
	if !foundClip {
		t.Error("viewport queue has no Clip task")
	}
}

func TestTasksHighlightOnlyWhenSelected(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	id := mustAdd(t, g, contents, scene.NewRectangleFigure(10, 10, 50, 50, figdraw.Black))

	r := New(g)
	if n := countKind(r.Tasks(contents), TaskPaintHighlight); n != 0 {
		t.Fatalf("got %d highlight tasks before selection, want 0", n)
	}

	g.SelectSingle(id)
	tasks := r.Tasks(contents)
	if n := countKind(tasks, TaskPaintHighlight); n != 1 {
		t.Fatalf("got %d highlight tasks after selection, want 1", n)
	}
	// Highlight follows the block's border, after its subtree is closed.
	for i, task := range tasks {
		if task.Kind == TaskPaintHighlight {
			if i == 0 || tasks[i-1].Kind != TaskPaintBorder || tasks[i-1].Block != id {
				t.Errorf("highlight at %d not preceded by the block's border", i)
			}
		}
	}
}

func TestTasksSkipsInvisibleSubtree(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	hidden := mustAdd(t, g, contents, scene.NewRectangleFigure(10, 10, 50, 50, figdraw.Black))
	mustAdd(t, g, hidden, scene.NewRectangleFigure(1, 1, 10, 10, figdraw.Black))
	blk, _ := g.Block(hidden)
	blk.Visible = false

	tasks := New(g).Tasks(contents)
	for _, task := range tasks {
		if task.Block == hidden {
			t.Fatalf("queue contains a task for an invisible block: %v", task.Kind)
		}
	}
	// Only the contents block paints.
	if n := countKind(tasks, TaskPaintFigure); n != 1 {
		t.Errorf("got %d PaintFigure tasks, want 1", n)
	}
}

func TestTasksDeepChain(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 10, 10, figdraw.White))
	cur := contents
	const depth = 100_000
	for i := 0; i < depth; i++ {
		cur = mustAdd(t, g, cur, scene.NewRectangleFigure(0, 0, 1, 1, figdraw.Black))
	}

	tasks := New(g).Tasks(contents)
	if n := countKind(tasks, TaskPaintFigure); n != depth+1 {
		t.Fatalf("got %d PaintFigure tasks, want %d", n, depth+1)
	}
	if saves, restores := countKind(tasks, TaskSave), countKind(tasks, TaskRestore); saves != restores {
		t.Errorf("save/restore imbalance at depth: %d vs %d", saves, restores)
	}
}

func TestExecuteDispatch(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	mustAdd(t, g, contents, scene.NewRectangleFigure(10, 20, 50, 50, figdraw.Black))

	ctx := &mockContext{}
	New(g).Render(contents, ctx)

	want := []string{
		"save", "translate(0,0)", "fill",
		"save", "translate(0,0)", "fill",
		"restore",
		"restore",
	}
	if len(ctx.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ctx.ops, want)
	}
	for i := range want {
		if ctx.ops[i] != want[i] {
			t.Errorf("op %d: got %q, want %q", i, ctx.ops[i], want[i])
		}
	}
	if len(ctx.fills) != 2 || ctx.fills[1] != figdraw.NewRect(10, 20, 50, 50) {
		t.Errorf("fills = %v, want child at its absolute bounds", ctx.fills)
	}
	if ctx.depth != 0 || ctx.min < 0 {
		t.Errorf("unbalanced context state: depth %d, min %d", ctx.depth, ctx.min)
	}
}

func TestRenderTranslateMovesSubtreeOnce(t *testing.T) {
	// PrimTranslate already rewrote every descendant's bounds; the painted
	// positions must shift by exactly the delta, not double it.
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	parent := mustAdd(t, g, contents, scene.NewRectangleFigure(20, 20, 100, 100, figdraw.Black))
	mustAdd(t, g, parent, scene.NewRectangleFigure(40, 40, 20, 20, figdraw.Black))

	r := New(g)
	before := &mockContext{}
	r.Render(contents, before)

	if err := g.PrimTranslate(parent, 5, 0); err != nil {
		t.Fatalf("PrimTranslate: %v", err)
	}
	after := &mockContext{}
	r.Render(contents, after)

	if len(before.fills) != 3 || len(after.fills) != 3 {
		t.Fatalf("fills = %d/%d, want 3 each", len(before.fills), len(after.fills))
	}
	// Device-space positions: parent and grandchild each move by (5, 0).
	for i := 1; i < 3; i++ {
		want := before.fills[i].Translate(5, 0)
		if after.fills[i] != want {
			t.Errorf("fill %d = %+v, want %+v", i, after.fills[i], want)
		}
	}
	if after.fills[2] != figdraw.NewRect(45, 40, 20, 20) {
		t.Errorf("grandchild fill = %+v, want (45, 40, 20, 20)", after.fills[2])
	}
}

func TestRenderViewportChildrenFollowScrollFrame(t *testing.T) {
	// A coordinate root shifts its children's frame by its bounds origin;
	// translating the viewport moves the subtree once, through the frame,
	// while the children's stored bounds stay untouched.
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	vpID := mustAdd(t, g, contents, scene.NewViewportFigure(50, 50, 100, 100, figdraw.Insets{}))
	strip := mustAdd(t, g, vpID, scene.NewRectangleFigure(10, 10, 20, 20, figdraw.Black))

	r := New(g)
	ctx := &mockContext{}
	r.Render(contents, ctx)
	// The viewport itself paints nothing; fills are contents then strip.
	if len(ctx.fills) != 2 || ctx.fills[1] != figdraw.NewRect(60, 60, 20, 20) {
		t.Fatalf("strip fill = %v, want device position (60, 60, 20, 20)", ctx.fills)
	}

	if err := g.PrimTranslate(vpID, 5, 0); err != nil {
		t.Fatalf("PrimTranslate: %v", err)
	}
	sb, _ := g.Block(strip)
	if got := sb.Bounds(); got != figdraw.NewRect(10, 10, 20, 20) {
		t.Fatalf("strip bounds = %+v, want unchanged relative bounds", got)
	}
	ctx = &mockContext{}
	r.Render(contents, ctx)
	if ctx.fills[1] != figdraw.NewRect(65, 60, 20, 20) {
		t.Errorf("strip fill after translate = %+v, want (65, 60, 20, 20)", ctx.fills[1])
	}
}

func TestExecuteSkipsStaleBlocks(t *testing.T) {
	g := scene.New()
	contents := g.SetContents(scene.NewRectangleFigure(0, 0, 300, 300, figdraw.White))
	id := mustAdd(t, g, contents, scene.NewRectangleFigure(10, 10, 50, 50, figdraw.Black))

	r := New(g)
	tasks := r.Tasks(contents)
	// Copy the queue before the graph mutates under it; the internal buffer
	// is reused but the elements are values.
	frozen := make([]PaintTask, len(tasks))
	copy(frozen, tasks)

	if err := g.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	ctx := &mockContext{}
	r.Execute(frozen, ctx)
	// The removed block's fill never lands; state ops still balance.
	for _, f := range ctx.fills {
		if f.W == 50 {
			t.Error("stale block painted after removal")
		}
	}
	if ctx.depth != 0 {
		t.Errorf("unbalanced state after stale skip: depth %d", ctx.depth)
	}
}

func TestRenderSceneFallsBackToRoot(t *testing.T) {
	g := scene.New()
	ctx := &mockContext{}
	New(g).RenderScene(ctx)
	// Root is hidden and zero-sized yet still walks without panic.
	if ctx.depth != 0 {
		t.Errorf("unbalanced state: depth %d", ctx.depth)
	}
}
