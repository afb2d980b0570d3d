package scene

import (
	"github.com/figdraw/figdraw"
)

// ChildBounds pairs a block handle with its proposed bounds during a layout
// pass. Layouts mutate Bounds in place; the graph applies the results.
type ChildBounds struct {
	ID     BlockID
	Bounds figdraw.Rect
}

// Layout arranges the children of a container block. Implementations are
// stateless with respect to the graph: they see only the container rect and
// the children's current bounds.
type Layout interface {
	// Arrange updates each child's Bounds to its laid-out position within
	// container.
	Arrange(container figdraw.Rect, children []ChildBounds)

	// PreferredSize reports the size the container needs to hold the
	// children under this layout.
	PreferredSize(container figdraw.Rect, children []figdraw.Rect) figdraw.Size
}

// XYLayout keeps children at their absolute positions, shifted by the
// container origin. It is the layout equivalent of "no layout": figures are
// placed exactly where their bounds say.
type XYLayout struct{}

// Arrange offsets each child by the container origin.
func (XYLayout) Arrange(container figdraw.Rect, children []ChildBounds) {
	for i := range children {
		children[i].Bounds = children[i].Bounds.Translate(container.X, container.Y)
	}
}

// PreferredSize returns the extent of the union of the children's bounds.
func (XYLayout) PreferredSize(container figdraw.Rect, children []figdraw.Rect) figdraw.Size {
	var union figdraw.Rect
	for _, c := range children {
		union = union.Union(c)
	}
	if union.IsEmpty() {
		return container.SizeOf()
	}
	return figdraw.Size{Width: union.X + union.W, Height: union.Y + union.H}
}

// FillLayout gives every child the full container area, optionally shrunk
// by a margin. Children stack on top of each other in paint order.
type FillLayout struct {
	Margin figdraw.Insets
}

// Arrange sets each child's bounds to the container inset by the margin.
func (l FillLayout) Arrange(container figdraw.Rect, children []ChildBounds) {
	inner := container.Inset(l.Margin)
	for i := range children {
		children[i].Bounds = inner
	}
}

// PreferredSize returns the container size plus the margin.
func (l FillLayout) PreferredSize(container figdraw.Rect, children []figdraw.Rect) figdraw.Size {
	var max figdraw.Size
	for _, c := range children {
		if c.W > max.Width {
			max.Width = c.W
		}
		if c.H > max.Height {
			max.Height = c.H
		}
	}
	return figdraw.Size{
		Width:  max.Width + l.Margin.Width(),
		Height: max.Height + l.Margin.Height(),
	}
}
