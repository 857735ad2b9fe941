package core

import (
	"errors"
	"fmt"
	"time"
)

// Todo is a single task record.
//
// Field rules:
//   - ID is positive, unique within a collection, and never changes.
//   - Title and Description are stored trimmed and may be empty.
//   - DueDate is nil when the record has no due date. A non-nil value
//     normally matches DueDateLayout; an unparseable stored value is kept
//     verbatim and only demoted to "no date" when ordering, never
//     corrected or dropped.
//   - Completed defaults to false on creation.
//   - CreatedAt is stamped once on creation and never mutated afterwards.
type Todo struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
}

// DueTime returns the parsed due date. ok is false when the record has no
// due date or the stored value does not parse; such records order after
// every dated record.
func (t Todo) DueTime() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	d, err := time.Parse(DueDateLayout, *t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (t Todo) Validate() error {
	if t.ID < 1 {
		return fmt.Errorf("id must be positive, got %d", t.ID)
	}
	return nil
}

// ValidateCollection checks every record individually plus cross-record id
// uniqueness. Store implementations run it on freshly decoded data.
func ValidateCollection(items []Todo) error {
	var errs []error
	seen := make(map[int]struct{}, len(items))
	for i, t := range items {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
		if _, dup := seen[t.ID]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate id %d", i, t.ID))
		}
		seen[t.ID] = struct{}{}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
