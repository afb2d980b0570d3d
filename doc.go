// Package figdraw provides the core value types for a retained-mode 2D
// scene graph: geometry (Point, Rect, Insets), a 4x4 homogeneous Transform
// with a save/restore TransformStack, colors, and the RenderContext
// capability that rendering backends implement.
//
// # Overview
//
// figdraw is organized around a strict dependency order:
//
//   - figdraw (this package): leaf value types and capability interfaces
//   - scene: the block tree, figures, tree propagation, and hit testing
//   - render: the trampoline task scheduler that flattens a tree into a
//     paint-task queue
//   - displaylist: a binary, zero-copy wire format for recorded drawing
//     operations, with chunking and incremental patching
//   - anim: tween-driven block motion
//
// The core never rasterizes. Everything that touches pixels goes through
// the RenderContext capability, implemented by an external backend.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # Concurrency
//
// Scene mutation is single-writer; value types in this package are plain
// immutable values and safe to share. Display-list buffers produced by
// displaylist.Recorder are immutable byte sequences and may be consumed by
// any number of concurrent dispatchers.
package figdraw
