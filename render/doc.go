// Package render flattens a scene tree into a queue of paint tasks and
// executes them against a RenderContext.
//
// # Why a task queue
//
// Toolkit-style painting is naturally recursive: paint yourself, then
// recurse into children inside a save/translate/clip bracket. Recursion is
// unsafe for generated or adversarial trees of unbounded depth. The
// Renderer instead converts "what to paint" into a flat, heap-resident
// sequence of PaintTask values — the trampoline — generated and executed
// with O(1) call-stack depth while preserving the visual contract: z-order
// by insertion, clip/translate nesting by save/restore.
//
// The queue is also a clean seam: a caller may generate tasks, inspect or
// cull them, and execute later, or simply stop consuming to cancel — no
// task has externally visible side effects until executed.
package render
