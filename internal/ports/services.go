package ports

import (
	"context"
	"io"

	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
)

// AuthService interface for the register -> login -> app flow
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthStatus, error)
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Logout(ctx context.Context) error
	ValidateToken(token string) (string, error)
	Status() AuthStatus
}

// TaskService interface for task collection operations
type TaskService interface {
	Add(ctx context.Context, text string) (*entities.Task, error)
	Toggle(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
	ClearAll(ctx context.Context, confirmed bool) error
	Move(ctx context.Context, id int64, dir entities.MoveDirection) error
	View(query string, order entities.SortOrder) TaskListResponse
}

// HistoryService interface for the read-only action log
type HistoryService interface {
	Entries() []string
}

// SettingsService interface for user preferences
type SettingsService interface {
	Get() Settings
	Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error)
}

// BackupService interface for the portable state snapshot
type BackupService interface {
	Export() (*entities.BackupDocument, error)
	Import(ctx context.Context, r io.Reader) error
}

// Request/Response Types

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthStatus describes the current stage of the authentication machine.
// RegisteredUser is the stored account name, shown on the login surface the
// way the source shows the registered user card.
type AuthStatus struct {
	Stage          entities.AuthStage `json:"stage"`
	RegisteredUser string             `json:"registered_user,omitempty"`
}

type SessionResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type AddTaskRequest struct {
	Text string `json:"text" validate:"required"`
}

type MoveTaskRequest struct {
	Direction entities.MoveDirection `json:"direction" validate:"required,oneof=up down"`
}

// TaskListResponse is the derived read-only projection of the collection.
// Total counts every stored task; Open counts not-done tasks within the
// returned view, which is what the source surfaces next to the list.
type TaskListResponse struct {
	Tasks []entities.Task `json:"tasks"`
	Total int             `json:"total"`
	Open  int             `json:"open"`
}

type Settings struct {
	Theme entities.Theme     `json:"theme"`
	Order entities.SortOrder `json:"order"`
}

type UpdateSettingsRequest struct {
	Theme string `json:"theme" validate:"omitempty,oneof=light dark"`
	Order string `json:"order" validate:"omitempty,oneof=newest oldest"`
}
