package store

import "fmt"

// CorruptError reports a backing store that exists but could not be read
// back as a to-do collection. Load substitutes an empty collection and
// returns this alongside it; callers surface it as a warning and carry
// on. The corrupt store itself is left untouched until the next Save
// overwrites it.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	if e == nil {
		return "corrupt backing store"
	}
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
