package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"todokeep/internal/core"
)

const sqlDriver = "sqlite3"

const sqlSchema = `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TEXT,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT '',
		pos INTEGER NOT NULL
	);
`

// SQLStore persists the collection in a local SQLite database. It honors
// the same contract as FileStore: Load of a missing file is an empty
// collection, Load of an unusable file degrades to empty plus a
// *CorruptError, and Save replaces the full table in one transaction.
// The pos column preserves collection order across the round trip.
type SQLStore struct {
	path string
}

func NewSQLStore(path string) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	return &SQLStore{path: path}, nil
}

// Path returns the database file location.
func (s *SQLStore) Path() string { return s.path }

// Load reads the whole collection in stored order. Load never creates or
// repairs the database file; a file that is not a readable database
// yields an empty collection plus a *CorruptError.
func (s *SQLStore) Load() ([]core.Todo, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return []core.Todo{}, nil
	}
	db, err := sql.Open(sqlDriver, s.path)
	if err != nil {
		return []core.Todo{}, &CorruptError{Path: s.path, Err: err}
	}
	defer db.Close()

	ok, err := hasTodosTable(db)
	if err != nil {
		return []core.Todo{}, &CorruptError{Path: s.path, Err: err}
	}
	if !ok {
		// A database no collection was ever saved to.
		return []core.Todo{}, nil
	}
	items, err := loadRows(db)
	if err != nil {
		return []core.Todo{}, &CorruptError{Path: s.path, Err: err}
	}
	if err := core.ValidateCollection(items); err != nil {
		return []core.Todo{}, &CorruptError{Path: s.path, Err: err}
	}
	return items, nil
}

// Save replaces the persisted collection with items. A target that is not
// a usable database is started over from scratch; database errors beyond
// that propagate.
func (s *SQLStore) Save(items []core.Todo) error {
	db, err := s.openForWrite()
	if err != nil {
		return err
	}
	defer db.Close()
	return replaceAll(db, items)
}

func (s *SQLStore) openForWrite() (*sql.DB, error) {
	db, err := sql.Open(sqlDriver, s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := ensureSchema(db); err == nil {
		return db, nil
	}
	_ = db.Close()

	// Not a usable database. Save replaces prior contents unconditionally,
	// so start the file over.
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("replace %s: %w", s.path, err)
	}
	db, err = sql.Open(sqlDriver, s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize %s: %w", s.path, err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(sqlSchema)
	return err
}

func hasTodosTable(db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'todos'`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return n > 0, nil
}

func loadRows(db *sql.DB) ([]core.Todo, error) {
	rows, err := db.Query(`SELECT id, title, description, due_date, completed, created_at FROM todos ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	items := []core.Todo{}
	for rows.Next() {
		var t core.Todo
		var due sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &due, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		if due.Valid {
			d := due.String
			t.DueDate = &d
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}
	return items, nil
}

func replaceAll(db *sql.DB, items []core.Todo) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM todos`); err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO todos (id, title, description, due_date, completed, created_at, pos)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range items {
		var due sql.NullString
		if t.DueDate != nil {
			due = sql.NullString{String: *t.DueDate, Valid: true}
		}
		if _, err := stmt.Exec(t.ID, t.Title, t.Description, due, t.Completed, t.CreatedAt, i); err != nil {
			return fmt.Errorf("insert todo %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}
