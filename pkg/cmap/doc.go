// Package cmap provides a concurrent map implementation for TeleMesh.
//
// This package implements a string-keyed sharded concurrent map used for
// hot mutable state (metric catalogs, per-tuple cells) with the following
// features:
//
//   - Sharding: murmur3 key hashing over a power-of-two shard count
//   - Fine-grained Locking: Per-shard RWMutex for minimal contention
//   - Closure Updates: Atomic per-key read-modify-write via Update
//   - Whole-map Sweeps: UpdateAll locks every shard in ascending order
//
// Usage:
//
//	m := cmap.New[*cell]()
//	m.Update("key", func(c *cell, ok bool) *cell { ... })
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Pointer values must only be mutated
// inside Update/UpdateAll callbacks and only be read inside Range/View
// callbacks; the shard lock then covers the whole read-modify-write.
package cmap
