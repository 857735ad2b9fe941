package cli

import (
	"fmt"
	"io"

	"todokeep/internal/core"
)

// renderTodo prints one record in the fixed three-line layout. The
// description line is printed even when empty so items keep a uniform
// height.
func renderTodo(w io.Writer, t core.Todo) {
	status := " "
	if t.Completed {
		status = "✓"
	}
	due := "-"
	if t.DueDate != nil {
		due = *t.DueDate
	}
	fmt.Fprintf(w, "[%s] #%d | %s | Due: %s\n", status, t.ID, t.Title, due)
	fmt.Fprintf(w, "     %s\n", t.Description)
	fmt.Fprintf(w, "     Created: %s\n", t.CreatedAt)
}

// renderList prints the collection. The empty notice refers to the stored
// collection, so a filter that matches nothing prints nothing at all.
func renderList(w io.Writer, items []core.Todo, sortByDue, openOnly bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No to-dos yet.")
		return
	}
	for _, t := range core.List(items, sortByDue, openOnly) {
		renderTodo(w, t)
	}
}
