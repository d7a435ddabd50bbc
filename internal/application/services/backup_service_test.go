package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
)

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := newTestState(t)
	tasks := NewTaskService(source, logger.NewNop())
	settings := NewSettingsService(source, logger.NewNop())
	backup := NewBackupService(source, logger.NewNop())

	_, err := tasks.Add(ctx, "buy milk")
	require.NoError(t, err)
	_, err = tasks.Add(ctx, "walk dog")
	require.NoError(t, err)
	_, err = settings.Update(ctx, updateSettings("dark", "oldest"))
	require.NoError(t, err)

	doc, err := backup.Export()
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	target := newTestState(t)
	targetBackup := NewBackupService(target, logger.NewNop())
	require.NoError(t, targetBackup.Import(ctx, bytes.NewReader(data)))

	got := target.Snapshot()
	want := source.Snapshot()
	assert.Equal(t, want.Tasks, got.Tasks)
	assert.Equal(t, want.History, got.History)
	assert.Equal(t, want.Theme, got.Theme)
	assert.Equal(t, want.Order, got.Order)
}

func TestImportPartialDocument(t *testing.T) {
	ctx := context.Background()

	st := newTestState(t)
	tasks := NewTaskService(st, logger.NewNop())
	backup := NewBackupService(st, logger.NewNop())

	_, err := tasks.Add(ctx, "buy milk")
	require.NoError(t, err)
	before := st.Snapshot()

	require.NoError(t, backup.Import(ctx, strings.NewReader(`{"theme":"dark"}`)))

	after := st.Snapshot()
	assert.Equal(t, entities.ThemeDark, after.Theme)
	assert.Equal(t, before.Tasks, after.Tasks)
	assert.Equal(t, before.History, after.History)
	assert.Equal(t, before.Order, after.Order)
}

func TestImportNullFieldsAreAbsent(t *testing.T) {
	ctx := context.Background()

	st := newTestState(t)
	tasks := NewTaskService(st, logger.NewNop())
	backup := NewBackupService(st, logger.NewNop())

	_, err := tasks.Add(ctx, "buy milk")
	require.NoError(t, err)
	before := st.Snapshot()

	doc := `{"tasks":null,"history":null,"theme":null,"order":"oldest"}`
	require.NoError(t, backup.Import(ctx, strings.NewReader(doc)))

	after := st.Snapshot()
	assert.Equal(t, before.Tasks, after.Tasks)
	assert.Equal(t, before.History, after.History)
	assert.Equal(t, before.Theme, after.Theme)
	assert.Equal(t, entities.OrderOldest, after.Order)
}

func TestImportInvalidDocumentChangesNothing(t *testing.T) {
	ctx := context.Background()

	st := newTestState(t)
	tasks := NewTaskService(st, logger.NewNop())
	backup := NewBackupService(st, logger.NewNop())

	_, err := tasks.Add(ctx, "buy milk")
	require.NoError(t, err)
	before := st.Snapshot()

	err = backup.Import(ctx, strings.NewReader("{broken"))
	assert.ErrorIs(t, err, entities.ErrInvalidBackup)

	after := st.Snapshot()
	assert.Equal(t, before.Tasks, after.Tasks)
	assert.Equal(t, before.History, after.History)
}

func TestImportReplacesTasksAndReseedsIDs(t *testing.T) {
	ctx := context.Background()

	st := newTestState(t)
	tasks := NewTaskService(st, logger.NewNop())
	backup := NewBackupService(st, logger.NewNop())

	future := st.NextID() + 1_000_000_000
	doc, err := json.Marshal(entities.BackupDocument{
		Tasks:   []entities.Task{{ID: future, Text: "imported", CreatedAt: future}},
		History: []string{"Added: imported"},
		Theme:   entities.ThemeLight,
		Order:   entities.OrderNewest,
	})
	require.NoError(t, err)

	require.NoError(t, backup.Import(ctx, bytes.NewReader(doc)))

	task, err := tasks.Add(ctx, "after import")
	require.NoError(t, err)
	assert.Greater(t, task.ID, future)
}
