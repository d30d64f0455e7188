package logfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is an append-only, line-oriented log file. All access goes through
// the store mutex, so appends and a rotation's read-modify-write never
// interleave.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for the log file at path. The file itself is
// created lazily on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the log file location.
func (s *Store) Path() string {
	return s.path
}

// Append writes one line to the end of the log, creating the parent
// directory and the file as needed.
func (s *Store) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("appending log line: %w", err)
	}
	return nil
}

// ReadLines returns the raw log lines in file order. A missing file is an
// empty log, not an error.
func (s *Store) ReadLines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return splitLines(content), nil
}

// Update applies fn to the current file content while holding the store
// lock, and overwrites the file with the returned content when write is
// true. A missing file means there is nothing to update and fn is not
// called.
func (s *Store) Update(fn func(content []byte) (updated []byte, write bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading log file: %w", err)
	}

	updated, write, err := fn(content)
	if err != nil {
		return err
	}
	if !write {
		return nil
	}
	if err := os.WriteFile(s.path, updated, 0o644); err != nil {
		return fmt.Errorf("rewriting log file: %w", err)
	}
	return nil
}

func splitLines(content []byte) []string {
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
