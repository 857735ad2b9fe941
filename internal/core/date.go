package core

import (
	"strings"
	"time"
)

const (
	// DueDateLayout is the only accepted due date form.
	DueDateLayout = "2006-01-02"
	// CreatedAtLayout is the creation timestamp form.
	CreatedAtLayout = "2006-01-02 15:04"
)

// ParseDueDate validates raw due date input. Surrounding space is
// ignored. Empty input means "no due date" and yields "". Anything else
// must be a calendar date written exactly in the DueDateLayout form, or
// the call fails with an *InvalidDateError carrying the offending text.
// No partial or fuzzy parsing is attempted.
func ParseDueDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	// time.Parse tolerates unpadded components, so round-trip the parse
	// to enforce the exact form.
	d, err := time.Parse(DueDateLayout, s)
	if err != nil || d.Format(DueDateLayout) != s {
		return "", &InvalidDateError{Input: s}
	}
	return s, nil
}

// Timestamp renders a creation time in the CreatedAtLayout form.
func Timestamp(t time.Time) string {
	return t.Format(CreatedAtLayout)
}
