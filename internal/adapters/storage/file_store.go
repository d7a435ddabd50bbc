package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// FileStore keeps every record in a single JSON document on an afero
// filesystem. Writes replace the whole document through a temp file and
// rename, so readers never see a half-written file.
type FileStore struct {
	fs   afero.Fs
	path string

	mu      sync.Mutex
	records map[string]json.RawMessage
}

// NewFileStore opens (or initializes) the store at path. A missing file
// means an empty store; a present file must parse.
func NewFileStore(fs afero.Fs, path string) (*FileStore, error) {
	s := &FileStore{
		fs:      fs,
		path:    path,
		records: make(map[string]json.RawMessage),
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if !isNotExist(fs, path) {
			return nil, fmt.Errorf("read state file: %w", err)
		}
		return s, nil
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("parse state file %s: %w", path, err)
		}
	}

	return s, nil
}

func isNotExist(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && !ok
}

// Read implements ports.StateStore.
func (s *FileStore) Read(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers cannot alias the stored bytes.
	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out, true, nil
}

// Write implements ports.StateStore.
func (s *FileStore) Write(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.records[key] = stored

	return s.flush()
}

// flush writes the whole document atomically. Callers hold s.mu.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

var _ ports.StateStore = (*FileStore)(nil)
