package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// BackupService serializes the combined state to a portable JSON document
// and applies such documents back. Import is all-or-nothing at the parse
// stage; after a clean parse each field present in the document overwrites
// the corresponding record, and absent fields are left untouched.
type BackupService struct {
	st     *state.State
	logger *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(st *state.State, logger *logger.Logger) *BackupService {
	return &BackupService{st: st, logger: logger}
}

// backupPayload mirrors entities.BackupDocument with pointer fields so a
// partial document's absent fields are distinguishable from empty ones.
type backupPayload struct {
	Tasks   *[]entities.Task    `json:"tasks"`
	History *[]string           `json:"history"`
	Theme   *entities.Theme     `json:"theme"`
	Order   *entities.SortOrder `json:"order"`
}

// Export captures the current tasks, history, theme and order.
func (s *BackupService) Export() (*entities.BackupDocument, error) {
	r := s.st.Snapshot()

	return &entities.BackupDocument{
		Tasks:   r.Tasks,
		History: r.History,
		Theme:   r.Theme,
		Order:   r.Order,
	}, nil
}

// Import reads a backup document from r and applies it. A document that
// fails to parse changes nothing.
func (s *BackupService) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var doc backupPayload
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidBackup, err)
	}

	err = s.st.Mutate(ctx, func(rec *state.Records) ([]string, error) {
		var keys []string

		if doc.Tasks != nil {
			rec.Tasks = *doc.Tasks
			if rec.Tasks == nil {
				rec.Tasks = []entities.Task{}
			}
			keys = append(keys, ports.KeyTasks)
		}
		if doc.History != nil {
			// Applied uncapped; the bound re-applies on the next append.
			rec.History = *doc.History
			if rec.History == nil {
				rec.History = []string{}
			}
			keys = append(keys, ports.KeyHistory)
		}
		if doc.Theme != nil && *doc.Theme != "" {
			rec.Theme = *doc.Theme
			keys = append(keys, ports.KeyTheme)
		}
		if doc.Order != nil && *doc.Order != "" {
			rec.Order = *doc.Order
			keys = append(keys, ports.KeyOrder)
		}

		return keys, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Backup imported")

	return nil
}

var _ ports.BackupService = (*BackupService)(nil)
