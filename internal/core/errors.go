package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("to-do not found")
	ErrInvalidDate = errors.New("invalid due date")
)

// NotFoundError reports the id a mutating operation failed to locate.
// It never follows a save: the collection and backing file are untouched.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("no to-do with id %d", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidDateError carries rejected due date text. It is raised during
// validation, before any mutation.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	if e == nil {
		return ErrInvalidDate.Error()
	}
	return fmt.Sprintf("invalid due date %q, want YYYY-MM-DD", e.Input)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }
