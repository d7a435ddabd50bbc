package entities

import "errors"

// Common errors
var (
	ErrEmptyCredentials     = errors.New("username and password are required")
	ErrNoAccount            = errors.New("no registered account found")
	ErrInvalidCredentials   = errors.New("incorrect username or password")
	ErrNotLoggedIn          = errors.New("not logged in")
	ErrSessionActive        = errors.New("a session is already active")
	ErrEmptyTaskText        = errors.New("task text is empty")
	ErrTaskNotFound         = errors.New("task not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidBackup        = errors.New("invalid backup file")
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// SortOrder controls how task views are sorted by creation time.
type SortOrder string

const (
	OrderNewest SortOrder = "newest"
	OrderOldest SortOrder = "oldest"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	return o == OrderNewest || o == OrderOldest
}

// MoveDirection is the direction of a reorder swap in storage order.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// AuthStage is the state of the authentication machine.
type AuthStage string

const (
	StageNoAccount     AuthStage = "no_account"
	StageAwaitingLogin AuthStage = "awaiting_login"
	StageLoggedIn      AuthStage = "logged_in"
)

// Account is the single registered account. The password is stored and
// compared as plain text; this is preserved source behavior and a documented
// limitation, not a feature to extend.
type Account struct {
	Name      string `json:"name"`
	Pass      string `json:"pass"`
	CreatedAt int64  `json:"createdAt"`
}

// Session is the ephemeral proof of a successful login. It lives in process
// memory only and is never written to the store.
type Session struct {
	Name string
	ID   string
}

// Task is a single entry in the task collection. CreatedAt is unix
// milliseconds and equals ID, which keeps date sorting aligned with creation
// order even when several tasks are created within the same millisecond.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"`
}

// BackupDocument is the portable snapshot produced by export. Every field is
// present on export; import accepts partial documents (see the backup
// service).
type BackupDocument struct {
	Tasks   []Task    `json:"tasks"`
	History []string  `json:"history"`
	Theme   Theme     `json:"theme"`
	Order   SortOrder `json:"order"`
}
