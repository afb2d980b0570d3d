package scene

import (
	"errors"

	"github.com/figdraw/figdraw"
)

// ErrNotFound is returned when a BlockID is stale or was never issued by
// this graph. Structural misses are recoverable by design: no graph
// operation panics on a bad handle.
var ErrNotFound = errors.New("scene: block not found")

type slot struct {
	gen   uint32
	block *RuntimeBlock
}

// Graph owns all blocks of one scene in a flat slot table and maintains the
// tree invariants: single root, acyclic, every non-root block present in
// exactly one parent's children list, and no child handle pointing outside
// the table.
//
// Graph is not safe for concurrent mutation; writes must be serialized by
// the caller (single-writer discipline) before a renderer pass reads it.
type Graph struct {
	slots []slot
	free  []uint32

	root     BlockID
	contents BlockID

	layout      Layout
	layoutValid bool
}

// New creates a graph containing only the hidden root block.
func New() *Graph {
	g := &Graph{layoutValid: true}
	g.root = g.alloc(NewBaseFigure(0, 0, 0, 0), BlockID{})
	return g
}

func (g *Graph) alloc(fig Figure, parent BlockID) BlockID {
	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		g.slots = append(g.slots, slot{gen: 1})
		idx = uint32(len(g.slots) - 1)
	}
	id := BlockID{idx: idx, gen: g.slots[idx].gen}
	b := newRuntimeBlock(id, fig)
	b.parent = parent
	g.slots[idx].block = b
	return id
}

func (g *Graph) release(id BlockID) {
	s := &g.slots[id.idx]
	s.block = nil
	s.gen++
	g.free = append(g.free, id.idx)
}

// Block resolves a handle to its block. The second result is false when the
// handle is stale, invalid, or from another graph.
func (g *Graph) Block(id BlockID) (*RuntimeBlock, bool) {
	if !id.IsValid() || int(id.idx) >= len(g.slots) {
		return nil, false
	}
	s := g.slots[id.idx]
	if s.gen != id.gen || s.block == nil {
		return nil, false
	}
	return s.block, true
}

// Root returns the hidden root block's handle.
func (g *Graph) Root() BlockID {
	return g.root
}

// Contents returns the contents block set by SetContents, or an invalid
// handle if none has been set.
func (g *Graph) Contents() BlockID {
	return g.contents
}

// Len returns the number of live blocks, including the root.
func (g *Graph) Len() int {
	return len(g.slots) - len(g.free)
}

// SetContents installs the user-visible root container as a child of the
// hidden root and returns its handle. Rendering and hit testing start at
// the contents block when one is set.
func (g *Graph) SetContents(fig Figure) BlockID {
	id := g.alloc(fig, g.root)
	rootBlock, _ := g.Block(g.root)
	rootBlock.children = append(rootBlock.children, id)
	g.contents = id
	g.layoutValid = false
	return id
}

// AddChildTo creates a block for fig and appends it to parent's children,
// making it the topmost child. Returns ErrNotFound when parent is stale.
func (g *Graph) AddChildTo(parent BlockID, fig Figure) (BlockID, error) {
	p, ok := g.Block(parent)
	if !ok {
		return BlockID{}, ErrNotFound
	}
	id := g.alloc(fig, parent)
	p.children = append(p.children, id)
	g.layoutValid = false
	return id, nil
}

// Remove detaches the block from its parent and releases the whole subtree.
// Handles into the removed subtree become stale. Removing the root is not
// allowed and reports ErrNotFound.
func (g *Graph) Remove(id BlockID) error {
	b, ok := g.Block(id)
	if !ok || id == g.root {
		return ErrNotFound
	}

	if p, ok := g.Block(b.parent); ok {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	if id == g.contents {
		g.contents = BlockID{}
	}

	// Release the subtree with an explicit work stack; recursion depth must
	// not track tree depth.
	work := []BlockID{id}
	released := 0
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		cb, ok := g.Block(cur)
		if !ok {
			continue
		}
		work = append(work, cb.children...)
		g.release(cur)
		released++
	}
	figdraw.Logger().Debug("scene: removed subtree", "blocks", released)
	g.layoutValid = false
	return nil
}

// SetBounds moves and/or resizes a block. A position change is applied
// through PrimTranslate first, so descendants follow; a size change is then
// applied in place and invalidates layout for an external layout pass.
func (g *Graph) SetBounds(id BlockID, r figdraw.Rect) error {
	b, ok := g.Block(id)
	if !ok {
		return ErrNotFound
	}
	old := b.fig.Bounds()
	if dx, dy := r.X-old.X, r.Y-old.Y; dx != 0 || dy != 0 {
		if err := g.PrimTranslate(id, dx, dy); err != nil {
			return err
		}
	}
	if r.W != old.W || r.H != old.H {
		cur := b.fig.Bounds()
		b.fig.SetBounds(figdraw.NewRect(cur.X, cur.Y, r.W, r.H))
		g.layoutValid = false
	}
	return nil
}

// PrimTranslate shifts the block's bounds by (dx, dy) and propagates the
// delta to descendants so their positions stay consistent. A block whose
// figure uses local coordinates absorbs the offset: its own bounds move,
// but the delta is not broadcast into its subtree, since that subtree's
// positions are expressed relative to it.
//
// The traversal uses an explicit work stack, so call depth is O(1)
// regardless of tree depth.
func (g *Graph) PrimTranslate(id BlockID, dx, dy float64) error {
	if _, ok := g.Block(id); !ok {
		return ErrNotFound
	}
	work := []BlockID{id}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		b, ok := g.Block(cur)
		if !ok {
			continue
		}
		b.fig.SetBounds(b.fig.Bounds().Translate(dx, dy))
		if b.fig.UseLocalCoordinates() {
			continue
		}
		work = append(work, b.children...)
	}
	return nil
}

// TranslateToAbsolute converts the block's bounds into the frame of its
// nearest coordinate root (or the true root when no ancestor establishes a
// local coordinate system), accumulating ancestor runtime translations on
// the way up. Implemented iteratively; ancestor-chain length does not grow
// the call stack.
func (g *Graph) TranslateToAbsolute(id BlockID) (figdraw.Rect, error) {
	b, ok := g.Block(id)
	if !ok {
		return figdraw.Rect{}, ErrNotFound
	}
	r := b.fig.Bounds()
	cur := b.parent
	for cur.IsValid() {
		p, ok := g.Block(cur)
		if !ok {
			break
		}
		t := p.Transform.Translation()
		r = r.Translate(t.X, t.Y)
		if p.IsCoordinateSystem() {
			break
		}
		cur = p.parent
	}
	return r, nil
}

// HitTest returns the deepest, visually topmost block containing the point,
// starting from the contents block (or the root when no contents is set).
func (g *Graph) HitTest(p figdraw.Point) (BlockID, bool) {
	start := g.contents
	if !start.IsValid() {
		start = g.root
	}
	return g.HitTestFrom(start, p)
}

// HitTestFrom is HitTest starting at an explicit block.
func (g *Graph) HitTestFrom(start BlockID, p figdraw.Point) (BlockID, bool) {
	res, ok := NewHitTester(g).HitTest(start, p)
	if !ok {
		return BlockID{}, false
	}
	return res.Target(), true
}

// HitTestRect returns every visible block whose transformed bounds
// intersect the rectangle, in traversal order. Used for rubber-band
// selection.
func (g *Graph) HitTestRect(r figdraw.Rect) []BlockID {
	type entry struct {
		id     BlockID
		parent figdraw.Transform
	}
	var hits []BlockID
	stack := []entry{{id: g.root, parent: figdraw.Identity()}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b, ok := g.Block(e.id)
		if !ok || !b.Visible {
			continue
		}
		bounds := b.fig.Bounds()
		frame := e.parent.Mul(b.Transform)
		childFrame := frame
		if b.fig.UseLocalCoordinates() {
			childFrame = frame.Mul(figdraw.Translate2D(bounds.X, bounds.Y))
		}
		for i := len(b.children) - 1; i >= 0; i-- {
			stack = append(stack, entry{id: b.children[i], parent: childFrame})
		}
		if e.id == g.root {
			continue
		}
		a := frame.Apply(figdraw.Pt(bounds.X, bounds.Y))
		c := frame.Apply(figdraw.Pt(bounds.X+bounds.W, bounds.Y+bounds.H))
		if r.Intersects(figdraw.RectFromCorners(a, c)) {
			hits = append(hits, e.id)
		}
	}
	return hits
}

// SelectByRect clears the current selection and selects every block
// intersecting the rectangle.
func (g *Graph) SelectByRect(r figdraw.Rect) {
	hits := g.HitTestRect(r)
	g.clearSelection()
	for _, id := range hits {
		if b, ok := g.Block(id); ok {
			b.Selected = true
		}
	}
}

// SelectSingle clears the current selection and selects the given block.
// Passing an invalid handle just clears.
func (g *Graph) SelectSingle(id BlockID) {
	g.clearSelection()
	if b, ok := g.Block(id); ok {
		b.Selected = true
	}
}

// SelectedBlock returns the first selected block, if any.
func (g *Graph) SelectedBlock() (BlockID, bool) {
	for _, s := range g.slots {
		if s.block != nil && s.block.Selected {
			return s.block.id, true
		}
	}
	return BlockID{}, false
}

func (g *Graph) clearSelection() {
	for _, s := range g.slots {
		if s.block != nil {
			s.block.Selected = false
		}
	}
}

// SetLayout installs a layout for the contents block's children.
func (g *Graph) SetLayout(l Layout) {
	g.layout = l
	g.layoutValid = false
}

// Invalidate marks the layout stale; the next Revalidate recomputes it.
func (g *Graph) Invalidate() {
	g.layoutValid = false
}

// LayoutValid reports whether the layout is up to date.
func (g *Graph) LayoutValid() bool {
	return g.layoutValid
}

// Revalidate recomputes the layout when stale. Children of the contents
// block are arranged within container; position changes propagate to their
// subtrees through SetBounds.
func (g *Graph) Revalidate(container figdraw.Rect) {
	if g.layoutValid {
		return
	}
	if g.layout == nil {
		g.layoutValid = true
		return
	}
	start := g.contents
	if !start.IsValid() {
		start = g.root
	}
	parent, ok := g.Block(start)
	if !ok {
		return
	}
	children := make([]ChildBounds, 0, len(parent.children))
	for _, id := range parent.children {
		if b, ok := g.Block(id); ok {
			children = append(children, ChildBounds{ID: id, Bounds: b.fig.Bounds()})
		}
	}
	g.layout.Arrange(container, children)
	for _, cb := range children {
		// Route through SetBounds so subtrees follow position changes.
		_ = g.SetBounds(cb.ID, cb.Bounds)
	}
	g.layoutValid = true
}
