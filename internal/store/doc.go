// Package store provides the backing-store implementations for the to-do
// collection.
//
// It is intentionally split into:
//   - FileStore: the default JSON file backend, human-readable and diffable
//   - SQLStore: an opt-in SQLite backend with the same full-rewrite contract
//   - MemoryStore: an in-process backend for tests and embedding
//
// All three honor the same contract: a missing backing store loads as an
// empty collection, a corrupt one loads as an empty collection plus a
// *CorruptError warning, and every save is a full rewrite.
package store
