package core

import (
	"sort"
	"strings"
	"time"
)

// NextID returns one greater than the highest id in items, or 1 for an
// empty collection.
func NextID(items []Todo) int {
	max := 0
	for _, t := range items {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Find returns the record with the given id, if present.
func Find(items []Todo, id int) (Todo, bool) {
	for _, t := range items {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

// List produces a display ordering without mutating items. With openOnly,
// completed records are dropped first. With sortByDue, dated records come
// first in ascending date order and dateless (or unparseable) records
// follow; ties, and the plain mode, order by ascending id.
func List(items []Todo, sortByDue, openOnly bool) []Todo {
	out := make([]Todo, 0, len(items))
	for _, t := range items {
		if openOnly && t.Completed {
			continue
		}
		out = append(out, t)
	}
	if sortByDue {
		sort.Slice(out, func(i, j int) bool {
			di, iok := out[i].DueTime()
			dj, jok := out[j].DueTime()
			if iok != jok {
				return iok
			}
			if iok && !di.Equal(dj) {
				return di.Before(dj)
			}
			return out[i].ID < out[j].ID
		})
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out
}

// Patch is a partial update for a single record. A nil field is left
// unchanged; a non-nil field is applied. A non-nil Due must be "" or text
// validated by ParseDueDate; "" removes the due date. ClearDue also
// removes it and wins over a non-nil Due supplied in the same call.
type Patch struct {
	Title       *string
	Description *string
	Due         *string
	ClearDue    bool
}

// Engine applies mutations to a collection and persists each result
// through its Store. Operations take the collection by value and return
// the updated value; a failed operation returns the input unchanged and
// nothing is saved.
type Engine struct {
	Store Store

	// Now supplies creation timestamps. Nil means time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Create appends a new record with a fresh id, trimmed title and
// description, a creation timestamp, and completed unset, then saves.
// due must be "" (no due date) or text validated by ParseDueDate; the
// engine enforces no non-empty policy on title or description.
func (e *Engine) Create(items []Todo, title, description, due string) ([]Todo, Todo, error) {
	t := Todo{
		ID:          NextID(items),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   Timestamp(e.now()),
	}
	if due != "" {
		d := due
		t.DueDate = &d
	}
	next := append(append([]Todo(nil), items...), t)
	if err := e.Store.Save(next); err != nil {
		return items, Todo{}, err
	}
	return next, t, nil
}

// Update applies p to the record with the given id and saves, even when p
// is empty. Fails with *NotFoundError when the id is absent.
func (e *Engine) Update(items []Todo, id int, p Patch) ([]Todo, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, &NotFoundError{ID: id}
	}
	next := append([]Todo(nil), items...)
	t := &next[idx]
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	switch {
	case p.ClearDue:
		t.DueDate = nil
	case p.Due != nil:
		if *p.Due == "" {
			t.DueDate = nil
		} else {
			d := *p.Due
			t.DueDate = &d
		}
	}
	if err := e.Store.Save(next); err != nil {
		return items, err
	}
	return next, nil
}

// SetCompleted sets the completion flag and saves, leaving every other
// field unchanged. It implements both marking done and reopening.
func (e *Engine) SetCompleted(items []Todo, id int, done bool) ([]Todo, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, &NotFoundError{ID: id}
	}
	next := append([]Todo(nil), items...)
	next[idx].Completed = done
	if err := e.Store.Save(next); err != nil {
		return items, err
	}
	return next, nil
}

// Delete removes the record with the given id and saves. Deletion is the
// only way a record leaves the collection.
func (e *Engine) Delete(items []Todo, id int) ([]Todo, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, &NotFoundError{ID: id}
	}
	next := make([]Todo, 0, len(items)-1)
	next = append(next, items[:idx]...)
	next = append(next, items[idx+1:]...)
	if err := e.Store.Save(next); err != nil {
		return items, err
	}
	return next, nil
}

func indexOf(items []Todo, id int) int {
	for i, t := range items {
		if t.ID == id {
			return i
		}
	}
	return -1
}
