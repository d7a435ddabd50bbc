package state

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timoncotraci/To-Do-List-Checker/internal/adapters/storage"
	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

func newMemStore(t *testing.T) ports.StateStore {
	t.Helper()

	store, err := storage.NewFileStore(afero.NewMemMapFs(), "state.json")
	require.NoError(t, err)

	return store
}

func TestLoadDefaults(t *testing.T) {
	st, err := Load(context.Background(), newMemStore(t))
	require.NoError(t, err)

	r := st.Snapshot()
	assert.Nil(t, r.Account)
	assert.Nil(t, r.Session)
	assert.Empty(t, r.Tasks)
	assert.Empty(t, r.History)
	assert.Equal(t, entities.ThemeLight, r.Theme)
	assert.Equal(t, entities.OrderNewest, r.Order)
}

func TestMutatePersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	st, err := Load(ctx, store)
	require.NoError(t, err)

	err = st.Mutate(ctx, func(r *Records) ([]string, error) {
		r.Tasks = []entities.Task{{ID: 7, Text: "buy milk", CreatedAt: 7}}
		r.Theme = entities.ThemeDark
		return []string{ports.KeyTasks, ports.KeyTheme}, nil
	})
	require.NoError(t, err)

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)

	r := reloaded.Snapshot()
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "buy milk", r.Tasks[0].Text)
	assert.Equal(t, entities.ThemeDark, r.Theme)
}

func TestMutateErrorLeavesRecordsUntouched(t *testing.T) {
	ctx := context.Background()

	st, err := Load(ctx, newMemStore(t))
	require.NoError(t, err)

	wantErr := fmt.Errorf("boom")
	err = st.Mutate(ctx, func(r *Records) ([]string, error) {
		r.Tasks = []entities.Task{{ID: 1, Text: "should not stick"}}
		return []string{ports.KeyTasks}, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	assert.Empty(t, st.Snapshot().Tasks)
}

func TestSnapshotIsIndependent(t *testing.T) {
	ctx := context.Background()

	st, err := Load(ctx, newMemStore(t))
	require.NoError(t, err)

	err = st.Mutate(ctx, func(r *Records) ([]string, error) {
		r.Tasks = []entities.Task{{ID: 1, Text: "original", CreatedAt: 1}}
		return []string{ports.KeyTasks}, nil
	})
	require.NoError(t, err)

	snap := st.Snapshot()
	snap.Tasks[0].Text = "tampered"

	assert.Equal(t, "original", st.Snapshot().Tasks[0].Text)
}

func TestPushHistoryCapsAtLimit(t *testing.T) {
	r := Records{}
	for i := 0; i < HistoryCap+25; i++ {
		r.PushHistory(fmt.Sprintf("entry %d", i))
	}

	require.Len(t, r.History, HistoryCap)
	assert.Equal(t, fmt.Sprintf("entry %d", HistoryCap+24), r.History[0])
}

func TestNextIDStrictlyIncreasing(t *testing.T) {
	st, err := Load(context.Background(), newMemStore(t))
	require.NoError(t, err)

	prev := st.NextID()
	for i := 0; i < 1000; i++ {
		id := st.NextID()
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestNextIDSeededFromStoredTasks(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	st, err := Load(ctx, store)
	require.NoError(t, err)

	// An id far in the future, as a backup import could bring in.
	future := st.NextID() + 1_000_000_000
	err = st.Mutate(ctx, func(r *Records) ([]string, error) {
		r.Tasks = []entities.Task{{ID: future, Text: "imported", CreatedAt: future}}
		return []string{ports.KeyTasks}, nil
	})
	require.NoError(t, err)

	assert.Greater(t, st.NextID(), future)

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Greater(t, reloaded.NextID(), future)
}
