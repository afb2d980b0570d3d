package render

import (
	"github.com/figdraw/figdraw/scene"
)

// TaskKind identifies a paint task.
type TaskKind uint8

const (
	// TaskNop does nothing. Placeholder for culled or patched-out slots.
	TaskNop TaskKind = iota

	// TaskSave saves the render context state.
	TaskSave

	// TaskRestore restores the most recently saved state.
	TaskRestore

	// TaskTranslate offsets the current transform by (X, Y).
	TaskTranslate

	// TaskClip intersects the current clip with the rect (X, Y, W, H).
	TaskClip

	// TaskPaintFigure paints the block's figure content.
	TaskPaintFigure

	// TaskPaintBorder paints the block's border.
	TaskPaintBorder

	// TaskPaintHighlight paints the block's selection highlight.
	TaskPaintHighlight
)

// String returns a short name for the kind.
func (k TaskKind) String() string {
	switch k {
	case TaskNop:
		return "Nop"
	case TaskSave:
		return "Save"
	case TaskRestore:
		return "Restore"
	case TaskTranslate:
		return "Translate"
	case TaskClip:
		return "Clip"
	case TaskPaintFigure:
		return "PaintFigure"
	case TaskPaintBorder:
		return "PaintBorder"
	case TaskPaintHighlight:
		return "PaintHighlight"
	default:
		return "Unknown"
	}
}

// PaintTask is one step of a flattened paint traversal. It is a plain
// tagged value: no callbacks, no closures, so queues can be stored,
// inspected, or shipped across a boundary.
//
// Field use by kind: Translate reads X, Y; Clip reads X, Y, W, H; the
// three paint kinds read Block. Other fields are zero.
type PaintTask struct {
	Kind       TaskKind
	X, Y, W, H float64
	Block      scene.BlockID
}
