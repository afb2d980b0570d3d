package scene

import (
	"github.com/figdraw/figdraw"
)

// BlockID is an opaque, generation-checked handle into the graph's block
// table. The zero value is invalid. A BlockID outlives the block it names:
// once the block is removed, lookups with the stale handle miss rather than
// resolving to whatever reuses the slot.
//
// Equality is identity: two BlockIDs are the same block iff they are equal.
type BlockID struct {
	idx uint32
	gen uint32
}

// IsValid reports whether the handle could name a block. It does not check
// liveness; use Graph.Block for that.
func (id BlockID) IsValid() bool {
	return id.gen != 0
}

// RuntimeBlock is the mutable, tree-resident wrapper around a Figure:
// local transform, parent/children links, and per-node flags. Blocks are
// created and owned by a Graph; external code holds BlockIDs, not pointers,
// except transiently through Graph.Block.
type RuntimeBlock struct {
	id       BlockID
	parent   BlockID
	children []BlockID

	fig Figure

	// Transform is the block's local runtime transform, composed with the
	// ancestors' transforms during rendering and hit testing. It is distinct
	// from the figure's bounds origin: bounds place the figure, Transform
	// moves it at runtime without touching bounds.
	Transform figdraw.Transform

	Visible  bool
	Selected bool
	Enabled  bool

	preferredSize *figdraw.Size
	minimumSize   *figdraw.Size
	maximumSize   *figdraw.Size
}

func newRuntimeBlock(id BlockID, fig Figure) *RuntimeBlock {
	return &RuntimeBlock{
		id:        id,
		fig:       fig,
		Transform: figdraw.Identity(),
		Visible:   true,
		Enabled:   true,
	}
}

// ID returns the block's handle.
func (b *RuntimeBlock) ID() BlockID {
	return b.id
}

// Parent returns the parent handle, or an invalid BlockID for the root.
func (b *RuntimeBlock) Parent() BlockID {
	return b.parent
}

// Children returns the block's children in paint order (insertion order,
// later means painted on top). The returned slice is the graph's own; do
// not mutate it.
func (b *RuntimeBlock) Children() []BlockID {
	return b.children
}

// Figure returns the block's appearance capability.
func (b *RuntimeBlock) Figure() Figure {
	return b.fig
}

// SetFigure replaces the block's figure.
func (b *RuntimeBlock) SetFigure(fig Figure) {
	b.fig = fig
}

// Bounds returns the figure's bounds.
func (b *RuntimeBlock) Bounds() figdraw.Rect {
	return b.fig.Bounds()
}

// Translate composes a translation into the block's runtime transform.
// This does not touch the figure's bounds; use Graph.PrimTranslate to move
// bounds with propagation to descendants.
func (b *RuntimeBlock) Translate(dx, dy float64) {
	b.Transform = b.Transform.Mul(figdraw.Translate2D(dx, dy))
}

// IsCoordinateSystem reports whether the block establishes a local
// coordinate system for its descendants (a "coordinate root").
func (b *RuntimeBlock) IsCoordinateSystem() bool {
	return b.fig.UseLocalCoordinates()
}

// PreferredSize returns the explicit preferred size if set, otherwise the
// figure's bounds size.
func (b *RuntimeBlock) PreferredSize() figdraw.Size {
	if b.preferredSize != nil {
		return *b.preferredSize
	}
	return b.fig.Bounds().SizeOf()
}

// SetPreferredSize sets an explicit preferred size used by layouts.
func (b *RuntimeBlock) SetPreferredSize(s figdraw.Size) {
	b.preferredSize = &s
}

// MinimumSize returns the explicit minimum size if set, otherwise the
// preferred size.
func (b *RuntimeBlock) MinimumSize() figdraw.Size {
	if b.minimumSize != nil {
		return *b.minimumSize
	}
	return b.PreferredSize()
}

// SetMinimumSize sets an explicit minimum size used by layouts.
func (b *RuntimeBlock) SetMinimumSize(s figdraw.Size) {
	b.minimumSize = &s
}

// MaximumSize returns the explicit maximum size if set, otherwise an
// unbounded size.
func (b *RuntimeBlock) MaximumSize() figdraw.Size {
	if b.maximumSize != nil {
		return *b.maximumSize
	}
	return figdraw.Size{Width: maxDimension, Height: maxDimension}
}

// SetMaximumSize sets an explicit maximum size used by layouts.
func (b *RuntimeBlock) SetMaximumSize(s figdraw.Size) {
	b.maximumSize = &s
}

const maxDimension = 1 << 30
