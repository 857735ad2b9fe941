package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"todokeep/internal/core"
)

// Menu drives the interactive loop. All prompts and results go to Out;
// choices and field values are read line by line from In. Input running
// out ends the session as if the user had chosen to exit.
type Menu struct {
	Engine core.Engine
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer

	scanner *bufio.Scanner
	eof     bool
}

// Run loops until the user exits or input ends. After each completed
// action the collection is reloaded so changes made to the store by other
// invocations show up; a failed or abandoned action keeps the collection
// as is.
func (m *Menu) Run(items []core.Todo) {
	m.scanner = bufio.NewScanner(m.In)
	for {
		m.printHeader()
		choice, ok := m.readLine("Choose: ")
		if !ok {
			return
		}

		var err error
		reload := true
		switch choice {
		case "1":
			items, err = m.addAction(items)
		case "2":
			renderList(m.Out, items, false, false)
			fmt.Fprintln(m.Out)
		case "3":
			renderList(m.Out, items, true, false)
			fmt.Fprintln(m.Out)
		case "4":
			renderList(m.Out, items, true, true)
			fmt.Fprintln(m.Out)
		case "5":
			items, reload, err = m.updateAction(items)
		case "6":
			items, err = m.completeAction(items, true)
		case "7":
			items, err = m.completeAction(items, false)
		case "8":
			items, err = m.deleteAction(items)
		case "9":
			fmt.Fprintln(m.Out, "Bye!")
			return
		default:
			fmt.Fprint(m.Out, "Invalid choice.\n\n")
		}
		if m.eof {
			return
		}
		if err != nil {
			fmt.Fprintf(m.Out, "Error: %v\n\n", err)
			continue
		}
		if reload {
			items = loadWithWarning(m.Engine.Store, m.Logger)
		}
	}
}

func (m *Menu) printHeader() {
	fmt.Fprintln(m.Out, "==== To-Do App ====")
	fmt.Fprintln(m.Out, "1) Add to-do")
	fmt.Fprintln(m.Out, "2) List to-dos")
	fmt.Fprintln(m.Out, "3) List to-dos (sorted by due date)")
	fmt.Fprintln(m.Out, "4) List open to-dos (sorted by due date)")
	fmt.Fprintln(m.Out, "5) Update to-do")
	fmt.Fprintln(m.Out, "6) Mark complete")
	fmt.Fprintln(m.Out, "7) Reopen")
	fmt.Fprintln(m.Out, "8) Delete")
	fmt.Fprintln(m.Out, "9) Exit")
}

func (m *Menu) addAction(items []core.Todo) ([]core.Todo, error) {
	title, ok := m.promptNonEmpty("Title: ")
	if !ok {
		return items, nil
	}
	desc, ok := m.promptNonEmpty("Description: ")
	if !ok {
		return items, nil
	}
	dueInput, ok := m.readLine("Due date (YYYY-MM-DD) (optional): ")
	if !ok {
		return items, nil
	}
	due := ""
	if dueInput != "" {
		d, err := core.ParseDueDate(dueInput)
		if err != nil {
			fmt.Fprintln(m.Out, "Invalid date format. Skipping due date.")
		} else {
			due = d
		}
	}
	items, added, err := m.Engine.Create(items, title, desc, due)
	if err != nil {
		return items, err
	}
	fmt.Fprintf(m.Out, "Added #%d.\n\n", added.ID)
	return items, nil
}

func (m *Menu) updateAction(items []core.Todo) ([]core.Todo, bool, error) {
	id, ok, err := m.promptID()
	if !ok {
		return items, false, nil
	}
	if err != nil {
		return items, false, err
	}
	t, found := core.Find(items, id)
	if !found {
		fmt.Fprint(m.Out, "Not found.\n\n")
		return items, false, nil
	}

	fmt.Fprintln(m.Out, "\nCurrent:")
	renderTodo(m.Out, t)
	fmt.Fprintln(m.Out, "\nLeave blank to keep a field unchanged. Enter '-' to clear it.")

	newTitle, ok := m.readLine("New title: ")
	if !ok {
		return items, false, nil
	}
	newDesc, ok := m.readLine("New description: ")
	if !ok {
		return items, false, nil
	}
	newDue, ok := m.readLine("New due date (YYYY-MM-DD) (optional): ")
	if !ok {
		return items, false, nil
	}

	var p core.Patch
	switch newTitle {
	case "":
	case "-":
		p.Title = new(string)
	default:
		p.Title = &newTitle
	}
	switch newDesc {
	case "":
	case "-":
		p.Description = new(string)
	default:
		p.Description = &newDesc
	}
	switch {
	case newDue == "-":
		p.ClearDue = true
	case newDue != "":
		d, derr := core.ParseDueDate(newDue)
		if derr != nil {
			fmt.Fprintln(m.Out, "Invalid due date; not changing it.")
		} else {
			p.Due = &d
		}
	}

	items, err = m.Engine.Update(items, id, p)
	if err != nil {
		return items, false, err
	}
	fmt.Fprint(m.Out, "Updated.\n\n")
	return items, true, nil
}

func (m *Menu) completeAction(items []core.Todo, done bool) ([]core.Todo, error) {
	id, ok, err := m.promptID()
	if !ok || err != nil {
		return items, err
	}
	items, err = m.Engine.SetCompleted(items, id, done)
	if err != nil {
		return items, err
	}
	if done {
		fmt.Fprint(m.Out, "Marked complete.\n\n")
	} else {
		fmt.Fprint(m.Out, "Reopened.\n\n")
	}
	return items, nil
}

func (m *Menu) deleteAction(items []core.Todo) ([]core.Todo, error) {
	id, ok, err := m.promptID()
	if !ok || err != nil {
		return items, err
	}
	items, err = m.Engine.Delete(items, id)
	if err != nil {
		return items, err
	}
	fmt.Fprint(m.Out, "Deleted.\n\n")
	return items, nil
}

// readLine prints the label and reads one trimmed line. ok is false once
// input is exhausted.
func (m *Menu) readLine(label string) (string, bool) {
	fmt.Fprint(m.Out, label)
	if !m.scanner.Scan() {
		m.eof = true
		return "", false
	}
	return strings.TrimSpace(m.scanner.Text()), true
}

func (m *Menu) promptNonEmpty(label string) (string, bool) {
	for {
		v, ok := m.readLine(label)
		if !ok {
			return "", false
		}
		if v != "" {
			return v, true
		}
		fmt.Fprintln(m.Out, "Please enter a value (cannot be empty).")
	}
}

func (m *Menu) promptID() (int, bool, error) {
	raw, ok := m.readLine("ID: ")
	if !ok {
		return 0, false, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("id must be an integer, got %q", raw)
	}
	return id, true, nil
}
