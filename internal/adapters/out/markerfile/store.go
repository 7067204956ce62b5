// Package markerfile keeps the last-seen order id in a small text file so that
// the new-order notification is not repeated after a restart.
package markerfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPath is the marker file used when none is configured.
const DefaultPath = "last_order_id.txt"

// Store reads and writes the marker file. Writes go to a temporary file in
// the same directory which is then renamed over the marker, so a crash never
// leaves a truncated id behind.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for path, or DefaultPath when path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the marker file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored id with surrounding whitespace removed, or "" when
// the file does not exist yet.
func (s *Store) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read marker %s: %w", s.path, err)
	}

	return string(bytes.TrimSpace(data)), nil
}

// Save replaces the stored id.
func (s *Store) Save(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp marker in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(orderID)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write marker: %w", err)
	}

	if err = os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace marker %s: %w", s.path, err)
	}

	return nil
}
