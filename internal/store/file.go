package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"todokeep/internal/core"
)

// FileStore persists the collection as a pretty-printed JSON array in a
// single file.
//
// All writes are atomic and durable (file sync + atomic rename + dir
// sync), so the backing file always holds a complete rendering of some
// collection, never a torn write.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the whole collection. A missing file is the expected
// first-run state and yields an empty collection. A file that cannot be
// read or decoded yields an empty collection plus a *CorruptError.
func (s *FileStore) Load() ([]core.Todo, error) {
	raw, err := readRecordsStrict(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Todo{}, nil
		}
		return []core.Todo{}, &CorruptError{Path: s.path, Err: err}
	}
	items := make([]core.Todo, len(raw))
	for i, r := range raw {
		items[i] = r.todo()
	}
	if err := core.ValidateCollection(items); err != nil {
		return []core.Todo{}, &CorruptError{Path: s.path, Err: err}
	}
	return items, nil
}

// Save rewrites the whole file with items. Filesystem errors propagate.
func (s *FileStore) Save(items []core.Todo) error {
	data, err := marshalRecords(items)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := writeFileAtomicDurable(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// rawRecord mirrors a stored object with every field behind a pointer, so
// absence is distinguishable from a zero value after decoding. id, title
// and description must be present; the rest default.
type rawRecord struct {
	ID          *int    `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
	CreatedAt   *string `json:"created_at"`
}

func (r rawRecord) validate() error {
	if r.ID == nil {
		return errors.New("missing id")
	}
	if r.Title == nil {
		return errors.New("missing title")
	}
	if r.Description == nil {
		return errors.New("missing description")
	}
	return nil
}

func (r rawRecord) todo() core.Todo {
	t := core.Todo{
		ID:          *r.ID,
		Title:       *r.Title,
		Description: *r.Description,
		DueDate:     r.DueDate,
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	if r.CreatedAt != nil {
		t.CreatedAt = *r.CreatedAt
	}
	return t
}

func readRecordsStrict(path string) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	var raw []rawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing content")
	}
	for i, r := range raw {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return raw, nil
}

func marshalRecords(items []core.Todo) ([]byte, error) {
	// Serialize an empty collection as [] rather than null.
	if items == nil {
		items = []core.Todo{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
