package services

import (
	"context"

	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// SettingsService handles the theme and list-order preferences. Preference
// changes are persisted immediately but do not appear in the history log.
type SettingsService struct {
	st     *state.State
	logger *logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(st *state.State, logger *logger.Logger) *SettingsService {
	return &SettingsService{st: st, logger: logger}
}

// Get returns the current preferences.
func (s *SettingsService) Get() ports.Settings {
	r := s.st.Snapshot()
	return ports.Settings{Theme: r.Theme, Order: r.Order}
}

// Update overwrites whichever preferences the request carries.
func (s *SettingsService) Update(ctx context.Context, req ports.UpdateSettingsRequest) (*ports.Settings, error) {
	var out ports.Settings

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		var keys []string
		if req.Theme != "" {
			r.Theme = entities.Theme(req.Theme)
			keys = append(keys, ports.KeyTheme)
		}
		if req.Order != "" {
			r.Order = entities.SortOrder(req.Order)
			keys = append(keys, ports.KeyOrder)
		}

		out = ports.Settings{Theme: r.Theme, Order: r.Order}
		return keys, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Settings updated", "theme", out.Theme, "order", out.Order)

	return &out, nil
}

var _ ports.SettingsService = (*SettingsService)(nil)
