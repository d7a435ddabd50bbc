package ports

import (
	"context"
	"encoding/json"
)

// Record keys of the persisted store. Each key holds one independent
// JSON-encoded record.
const (
	KeyAccount = "account"
	KeyTasks   = "tasks"
	KeyHistory = "history"
	KeyTheme   = "theme"
	KeyOrder   = "order"
)

// StateStore is the durable key-value store behind the application state.
// Write must be atomic from the caller's perspective: a reader never
// observes a partially written value. Implementations are swappable (file,
// embedded database, in-memory) without touching component logic.
type StateStore interface {
	// Read returns the value for key, or ok=false when the key is absent.
	Read(ctx context.Context, key string) (json.RawMessage, bool, error)
	// Write replaces the value for key.
	Write(ctx context.Context, key string, value json.RawMessage) error
}
