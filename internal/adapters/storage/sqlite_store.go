package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

const createStateTable = `
	CREATE TABLE IF NOT EXISTS state (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`

// SQLiteStore keeps each record as a row in an embedded sqlite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// state table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if _, err := db.Exec(createStateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite store: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Read implements ports.StateStore.
func (s *SQLiteStore) Read(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM state WHERE key = ?`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read record %q: %w", key, err)
	}

	return json.RawMessage(value), true, nil
}

// Write implements ports.StateStore.
func (s *SQLiteStore) Write(ctx context.Context, key string, value json.RawMessage) error {
	query := `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := s.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
		return fmt.Errorf("write record %q: %w", key, err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.StateStore = (*SQLiteStore)(nil)
