package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ExitSuccess           = 0
	ExitOperationFailure  = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

type Command string

const (
	CommandMenu   Command = "menu"
	CommandAdd    Command = "add"
	CommandList   Command = "list"
	CommandDone   Command = "done"
	CommandReopen Command = "reopen"
	CommandUpdate Command = "update"
	CommandDelete Command = "delete"
)

// Invocation is the fully parsed description of one CLI run.
//
// Due date text is carried raw and validated at execution time, so the
// date error surfaces as an operation failure rather than a usage error.
type Invocation struct {
	Command Command

	// Config overrides from the global flags; empty means not supplied.
	File     string
	Store    string
	LogLevel string

	// add arguments.
	Title       string
	Description string
	Due         string

	// list switches.
	SortByDue bool
	OpenOnly  bool

	// Target id for done, reopen, update and delete.
	ID int

	// update patch; a nil field was not supplied on the command line, so
	// supplying an empty value is distinct from omitting the flag.
	NewTitle       *string
	NewDescription *string
	NewDue         *string
	ClearDue       bool
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses an argument slice (excluding argv[0]) into a
// canonical Invocation. Global flags come before the subcommand; the
// subcommand's own flags follow its positional arguments, matching the
// quick-shortcut form `add "Title" "Description" --due 2025-06-01`.
// No arguments at all selects the interactive menu.
func ParseInvocation(args []string) (Invocation, error) {
	global := flag.NewFlagSet("todokeep", flag.ContinueOnError)
	global.SetOutput(io.Discard) // parsing errors are returned, not printed

	var inv Invocation
	global.StringVar(&inv.File, "file", "", "Backing store path.")
	global.StringVar(&inv.Store, "store", "", "Backing store backend: file|sqlite.")
	global.StringVar(&inv.LogLevel, "log-level", "", "Log level: debug|info|warn|error.")

	if err := global.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	rest := global.Args()
	if len(rest) == 0 {
		inv.Command = CommandMenu
		return inv, nil
	}

	cmd, rest := rest[0], rest[1:]
	switch cmd {
	case "add":
		return parseAdd(inv, rest)
	case "list":
		return parseList(inv, rest)
	case "done":
		return parseTargetID(inv, CommandDone, rest, "done ID")
	case "reopen":
		return parseTargetID(inv, CommandReopen, rest, "reopen ID")
	case "update":
		return parseUpdate(inv, rest)
	case "delete":
		return parseTargetID(inv, CommandDelete, rest, "delete ID")
	default:
		return Invocation{}, invalidInvocationf("unknown command %q", cmd)
	}
}

func parseAdd(inv Invocation, args []string) (Invocation, error) {
	if len(args) < 2 {
		return Invocation{}, invalidInvocationf("usage: add TITLE DESCRIPTION [--due YYYY-MM-DD]")
	}
	inv.Command = CommandAdd
	inv.Title = args[0]
	inv.Description = args[1]

	fs := flag.NewFlagSet("todokeep add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	due := fs.String("due", "", "Due date YYYY-MM-DD (optional).")
	if err := fs.Parse(args[2:]); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected arguments after DESCRIPTION: %q", strings.Join(fs.Args(), " "))
	}
	inv.Due = *due
	return inv, nil
}

func parseList(inv Invocation, args []string) (Invocation, error) {
	fs := flag.NewFlagSet("todokeep list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sortByDue := fs.Bool("sort", false, "Sort by due date.")
	openOnly := fs.Bool("open", false, "Show only incomplete items.")
	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected arguments: %q", strings.Join(fs.Args(), " "))
	}
	inv.Command = CommandList
	inv.SortByDue = *sortByDue
	inv.OpenOnly = *openOnly
	return inv, nil
}

func parseTargetID(inv Invocation, cmd Command, args []string, usage string) (Invocation, error) {
	if len(args) != 1 {
		return Invocation{}, invalidInvocationf("usage: %s", usage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return Invocation{}, err
	}
	inv.Command = cmd
	inv.ID = id
	return inv, nil
}

func parseUpdate(inv Invocation, args []string) (Invocation, error) {
	if len(args) < 1 {
		return Invocation{}, invalidInvocationf("usage: update ID [--title T] [--desc D] [--due YYYY-MM-DD | --clear-due]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return Invocation{}, err
	}
	inv.Command = CommandUpdate
	inv.ID = id

	fs := flag.NewFlagSet("todokeep update", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "New title.")
	desc := fs.String("desc", "", "New description.")
	due := fs.String("due", "", "New due date YYYY-MM-DD.")
	clearDue := fs.Bool("clear-due", false, "Clear the due date.")
	if err := fs.Parse(args[1:]); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected arguments after ID: %q", strings.Join(fs.Args(), " "))
	}

	// Only flags actually present enter the patch, so `--title ""` sets an
	// empty title while omitting --title leaves it alone.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			inv.NewTitle = title
		case "desc":
			inv.NewDescription = desc
		case "due":
			inv.NewDue = due
		case "clear-due":
			inv.ClearDue = *clearDue
		}
	})
	return inv, nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalidInvocationf("id must be an integer, got %q", raw)
	}
	return id, nil
}

// ExitCode extracts a semantic exit code from a ParseInvocation error.
// If the error is not a known invocation error, it returns ExitInternalError.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
