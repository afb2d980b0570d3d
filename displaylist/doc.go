// Package displaylist implements the binary wire format for recorded
// drawing operations.
//
// A display list is a single immutable byte buffer laid out as a fixed
// 64-byte header, a chunk index of fixed 32-byte entries, a resource
// manifest, the chunk bodies (fixed-size opcode records), and a shared
// data pool holding variable-length payloads such as glyph runs and path
// geometry. Records reference pool data by offset, so a chunk body can be
// relocated without rewriting it.
//
// The split between Recorder and Dispatcher mirrors the buffer's
// lifecycle: a Recorder produces the buffer once, then any number of
// Dispatchers consume it read-only, concurrently and even across process
// boundaries, because the buffer is self-describing and carries no
// internal mutable state. A buffer is superseded by applying a Patch,
// which always yields a new complete buffer; a Dispatcher never observes
// a half-applied update.
//
// All multi-byte fields are little-endian. Every chunk index entry
// carries an axis-aligned bounding box maintained by the Recorder, used
// by VisibleChunks for spatial culling before any record is decoded.
package displaylist
