package core

// Store persists the full to-do collection. The engine rewrites the whole
// collection after every successful mutation; there is no partial write.
type Store interface {
	// Load reads the full collection. A missing backing store yields an
	// empty collection and a nil error: that is the expected first-run
	// state. An unreadable or unparseable backing store also yields an
	// empty collection, together with a non-nil error the caller surfaces
	// as a warning; the returned slice is always usable. Load never
	// fabricates partial data from a corrupt source.
	Load() ([]Todo, error)

	// Save replaces the persisted collection with items, a full rewrite
	// that leaves the backing store well formed. Filesystem errors
	// propagate to the caller unmodified.
	Save(items []Todo) error
}
