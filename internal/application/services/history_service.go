package services

import (
	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// HistoryService exposes the action log, newest first. The log is append
// only; every mutating operation writes its own entry, so there is nothing
// to mutate here.
type HistoryService struct {
	st *state.State
}

// NewHistoryService creates a new history service
func NewHistoryService(st *state.State) *HistoryService {
	return &HistoryService{st: st}
}

// Entries returns a copy of the log.
func (s *HistoryService) Entries() []string {
	return s.st.Snapshot().History
}

var _ ports.HistoryService = (*HistoryService)(nil)
