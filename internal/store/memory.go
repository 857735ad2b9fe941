package store

import "todokeep/internal/core"

// MemoryStore keeps the collection in process memory. It backs tests and
// embedded use; the contract matches FileStore's. Load and Save both deep
// copy, so a caller can never alias the stored slice.
type MemoryStore struct {
	items []core.Todo
}

func NewMemoryStore(items ...core.Todo) *MemoryStore {
	return &MemoryStore{items: cloneTodos(items)}
}

func (s *MemoryStore) Load() ([]core.Todo, error) {
	return cloneTodos(s.items), nil
}

func (s *MemoryStore) Save(items []core.Todo) error {
	s.items = cloneTodos(items)
	return nil
}

func cloneTodos(items []core.Todo) []core.Todo {
	out := make([]core.Todo, len(items))
	for i, t := range items {
		if t.DueDate != nil {
			d := *t.DueDate
			t.DueDate = &d
		}
		out[i] = t
	}
	return out
}
