// Package scene implements the retained-mode scene graph: a flat table of
// runtime blocks keyed by generational ids, forming a single-rooted tree
// whose paint order is child insertion order.
//
// # Architecture
//
// The graph separates tree state from appearance:
//
//   - Graph owns every RuntimeBlock in a slot table. BlockID handles are
//     generation-checked, so a handle to a removed block simply misses
//     instead of resolving to a recycled slot.
//   - RuntimeBlock holds the mutable, tree-resident state: local transform,
//     parent/children links, visibility and selection flags.
//   - Figure is the stateless appearance capability (bounds, paint methods,
//     coordinate-mode flags). Figures hold no tree state; the graph owns the
//     only reference.
//
// # Traversal discipline
//
// Every tree walk in this package uses an explicit heap-allocated work list
// instead of call-stack recursion, so arbitrarily deep trees cannot overflow
// the stack. This applies to translation propagation (PrimTranslate),
// subtree removal, hit testing, and rectangle selection.
//
// # Concurrency
//
// Graph mutation requires single-writer discipline; serialize all writes
// externally before a render pass reads the tree.
package scene
