package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStoreAbsentKey(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, ok, err := store.Read(context.Background(), "todo_account")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreWriteRead(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	value := json.RawMessage(`{"name":"alice","pass":"secret","createdAt":1}`)
	require.NoError(t, store.Write(ctx, "todo_account", value))

	got, ok, err := store.Read(ctx, "todo_account")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(value), string(got))
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "todo_order", json.RawMessage(`"newest"`)))
	require.NoError(t, store.Write(ctx, "todo_order", json.RawMessage(`"oldest"`)))

	got, ok, err := store.Read(ctx, "todo_order")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"oldest"`, string(got))
}
