package services

import (
	"context"
	"sort"
	"strings"

	"github.com/timoncotraci/To-Do-List-Checker/internal/application/state"
	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// TaskService handles all task collection operations. The collection's
// storage order is the persisted sequence; sorted views are derived copies
// and never touch it.
type TaskService struct {
	st     *state.State
	logger *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(st *state.State, logger *logger.Logger) *TaskService {
	return &TaskService{st: st, logger: logger}
}

// Add creates a task from the trimmed text and inserts it at the head of
// the collection.
func (s *TaskService) Add(ctx context.Context, text string) (*entities.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entities.ErrEmptyTaskText
	}

	var task entities.Task

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		id := s.st.NextID()
		task = entities.Task{ID: id, Text: text, Done: false, CreatedAt: id}

		r.Tasks = append([]entities.Task{task}, r.Tasks...)
		r.PushHistory("Added: " + text)

		return []string{ports.KeyTasks, ports.KeyHistory}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task added", "task_id", task.ID, "text", task.Text)

	return &task, nil
}

// Toggle flips the done flag of the task with the given id. An unknown id
// is a silent no-op: it means a stale reference, not an error.
func (s *TaskService) Toggle(ctx context.Context, id int64) error {
	return s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		for i := range r.Tasks {
			if r.Tasks[i].ID == id {
				r.Tasks[i].Done = !r.Tasks[i].Done
				return []string{ports.KeyTasks}, nil
			}
		}
		return nil, nil
	})
}

// Remove deletes the task with the given id. Unknown ids are silent no-ops
// and leave the history untouched.
func (s *TaskService) Remove(ctx context.Context, id int64) error {
	removed := false

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		kept := r.Tasks[:0:0]
		for _, t := range r.Tasks {
			if t.ID == id {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		if !removed {
			return nil, nil
		}
		if kept == nil {
			kept = []entities.Task{}
		}

		r.Tasks = kept
		r.PushHistory("Deleted task")

		return []string{ports.KeyTasks, ports.KeyHistory}, nil
	})
	if err != nil {
		return err
	}

	if removed {
		s.logger.Info("Task deleted", "task_id", id)
	}

	return nil
}

// ClearAll empties the collection. The caller must confirm explicitly;
// declining leaves everything unchanged.
func (s *TaskService) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return entities.ErrConfirmationRequired
	}

	err := s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		r.Tasks = []entities.Task{}
		r.PushHistory("Cleared all tasks")

		return []string{ports.KeyTasks, ports.KeyHistory}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("All tasks cleared")

	return nil
}

// Move swaps the task with the given id with its immediate neighbor in
// storage order. Unknown ids and swaps past either end are silent no-ops.
func (s *TaskService) Move(ctx context.Context, id int64, dir entities.MoveDirection) error {
	return s.st.Mutate(ctx, func(r *state.Records) ([]string, error) {
		ix := -1
		for i := range r.Tasks {
			if r.Tasks[i].ID == id {
				ix = i
				break
			}
		}
		if ix == -1 {
			return nil, nil
		}

		swap := ix + 1
		if dir == entities.MoveUp {
			swap = ix - 1
		}
		if swap < 0 || swap >= len(r.Tasks) {
			return nil, nil
		}

		r.Tasks[ix], r.Tasks[swap] = r.Tasks[swap], r.Tasks[ix]

		return []string{ports.KeyTasks}, nil
	})
}

// View returns a derived projection of the collection: a copy sorted by
// creation time (descending for newest), filtered case-insensitively on the
// trimmed query. An empty or unknown order falls back to the stored
// preference. Storage order is never mutated.
func (s *TaskService) View(query string, order entities.SortOrder) ports.TaskListResponse {
	r := s.st.Snapshot()

	if !order.Valid() {
		order = r.Order
	}

	list := make([]entities.Task, len(r.Tasks))
	copy(list, r.Tasks)

	// Stable so tasks created in the same millisecond keep storage order.
	sort.SliceStable(list, func(i, j int) bool {
		if order == entities.OrderNewest {
			return list[i].CreatedAt > list[j].CreatedAt
		}
		return list[i].CreatedAt < list[j].CreatedAt
	})

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filtered := list[:0]
		for _, t := range list {
			if strings.Contains(strings.ToLower(t.Text), q) {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	open := 0
	for _, t := range list {
		if !t.Done {
			open++
		}
	}

	return ports.TaskListResponse{Tasks: list, Total: len(r.Tasks), Open: open}
}

var _ ports.TaskService = (*TaskService)(nil)
