package scene

import (
	"github.com/figdraw/figdraw"
)

// HitResult is the outcome of a hit test: the root-to-target chain of
// blocks containing the query point.
type HitResult struct {
	// Path lists the containing blocks from the traversal start down to the
	// hit block itself.
	Path []BlockID
}

// Target returns the deepest hit block.
func (r HitResult) Target() BlockID {
	return r.Path[len(r.Path)-1]
}

// TopParent returns the first block on the path (the start of traversal).
func (r HitResult) TopParent() BlockID {
	return r.Path[0]
}

// HitTester performs read-only point queries against a graph, sharing the
// renderer's coordinate conventions: a block occupies its bounds rectangle
// in its parent's frame composed with the block's runtime transform, and
// only a coordinate-root block shifts the frame its children are tested
// in (by its bounds origin, since their bounds are relative to it).
//
// Children are tested in reverse insertion order — the most recently added
// child first — matching paint order so the visually topmost block wins.
type HitTester struct {
	graph *Graph
}

// NewHitTester creates a tester over the graph.
func NewHitTester(g *Graph) *HitTester {
	return &HitTester{graph: g}
}

// HitTest returns the deepest block under the point, searching from start.
// The traversal uses an explicit stack and prunes any subtree whose block
// does not contain the point after inverse-transforming into its local
// frame. When a block matches, only its subtree remains in play: siblings
// lower in z can no longer win, which is exactly the recursive
// reverse-child-order semantics without the recursion.
func (h *HitTester) HitTest(start BlockID, p figdraw.Point) (HitResult, bool) {
	type entry struct {
		id     BlockID
		parent figdraw.Transform
	}
	stack := []entry{{id: start, parent: figdraw.Identity()}}
	var path []BlockID

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b, ok := h.graph.Block(e.id)
		if !ok || !b.Visible || !b.Enabled {
			continue
		}
		bounds := b.fig.Bounds()
		frame := e.parent.Mul(b.Transform)
		inv, ok := frame.Invert()
		if !ok {
			continue
		}
		if !bounds.Contains(inv.Apply(p)) {
			continue
		}

		// This block contains the point. Any deeper hit must come from its
		// own subtree, so pending siblings are discarded.
		path = append(path, e.id)
		stack = stack[:0]

		childFrame := frame
		area := b.fig.ClientArea()
		if b.fig.UseLocalCoordinates() {
			childFrame = frame.Mul(figdraw.Translate2D(bounds.X, bounds.Y))
		} else {
			area = area.Translate(bounds.X, bounds.Y)
		}
		if b.fig.ClipsChildren() {
			cinv, ok := childFrame.Invert()
			if !ok {
				continue
			}
			if !area.Contains(cinv.Apply(p)) {
				// Children are clipped to the client area; outside it they
				// are not visible and therefore not hittable.
				continue
			}
		}
		// Push in insertion order so the last-added child pops first.
		for _, child := range b.children {
			stack = append(stack, entry{id: child, parent: childFrame})
		}
	}

	if len(path) == 0 {
		return HitResult{}, false
	}
	return HitResult{Path: path}, true
}
