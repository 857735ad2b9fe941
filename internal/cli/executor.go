package cli

import (
	"fmt"
	"io"
	"log/slog"

	"todokeep/internal/config"
	"todokeep/internal/core"
	"todokeep/internal/store"
)

// Result is the outcome of executing one invocation.
type Result struct {
	ExitCode int
}

// Execute resolves configuration, builds the backing store and logger,
// and runs the invocation. User-facing output goes to stdout; errors and
// log records go to stderr.
func Execute(inv Invocation, stdin io.Reader, stdout, stderr io.Writer) Result {
	cfg, err := config.Load(config.Overrides{File: inv.File, Store: inv.Store, LogLevel: inv.LogLevel})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return Result{ExitCode: ExitConfigError}
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return ExecuteWithStore(inv, storeForConfig(cfg), logger, stdin, stdout, stderr)
}

// storeForConfig builds the configured backend. cfg passed validation, so
// the path is known to be non-empty.
func storeForConfig(cfg config.Config) core.Store {
	if cfg.Store == config.BackendSQLite {
		st, _ := store.NewSQLStore(cfg.File)
		return st
	}
	st, _ := store.NewFileStore(cfg.File)
	return st
}

// ExecuteWithStore runs one parsed invocation against an explicit store,
// letting tests substitute an in-memory one.
func ExecuteWithStore(inv Invocation, st core.Store, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Error: %v\n", fmt.Errorf("panic: %v", r))
			res = Result{ExitCode: ExitInternalError}
		}
	}()

	eng := core.Engine{Store: st}
	items := loadWithWarning(st, logger)

	switch inv.Command {
	case CommandMenu:
		m := &Menu{Engine: eng, Logger: logger, In: stdin, Out: stdout}
		m.Run(items)
		return Result{ExitCode: ExitSuccess}

	case CommandAdd:
		due, err := core.ParseDueDate(inv.Due)
		if err != nil {
			return fail(stderr, err)
		}
		_, added, err := eng.Create(items, inv.Title, inv.Description, due)
		if err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "Added to-do #%d: %s\n", added.ID, added.Title)
		return Result{ExitCode: ExitSuccess}

	case CommandList:
		renderList(stdout, items, inv.SortByDue, inv.OpenOnly)
		return Result{ExitCode: ExitSuccess}

	case CommandDone, CommandReopen:
		done := inv.Command == CommandDone
		if _, err := eng.SetCompleted(items, inv.ID, done); err != nil {
			return fail(stderr, err)
		}
		if done {
			fmt.Fprintf(stdout, "Marked #%d complete.\n", inv.ID)
		} else {
			fmt.Fprintf(stdout, "Reopened #%d.\n", inv.ID)
		}
		return Result{ExitCode: ExitSuccess}

	case CommandUpdate:
		p := core.Patch{Title: inv.NewTitle, Description: inv.NewDescription, ClearDue: inv.ClearDue}
		if inv.NewDue != nil {
			// Validate before touching the collection so a bad date fails
			// even when the target id does not exist either.
			due, err := core.ParseDueDate(*inv.NewDue)
			if err != nil {
				return fail(stderr, err)
			}
			p.Due = &due
		}
		if _, err := eng.Update(items, inv.ID, p); err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "Updated #%d.\n", inv.ID)
		return Result{ExitCode: ExitSuccess}

	case CommandDelete:
		if _, err := eng.Delete(items, inv.ID); err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "Deleted #%d.\n", inv.ID)
		return Result{ExitCode: ExitSuccess}

	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", inv.Command)
		return Result{ExitCode: ExitInvalidInvocation}
	}
}

// loadWithWarning reads the collection, downgrading an unreadable store to
// a warning. An unreadable store behaves as an empty list; its contents are
// left alone until the next save.
func loadWithWarning(st core.Store, logger *slog.Logger) []core.Todo {
	items, err := st.Load()
	if err != nil {
		logger.Warn("could not read backing store, starting with an empty list",
			slog.String("error", err.Error()))
	}
	return items
}

func fail(stderr io.Writer, err error) Result {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return Result{ExitCode: ExitOperationFailure}
}
