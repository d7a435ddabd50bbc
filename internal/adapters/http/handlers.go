package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/timoncotraci/To-Do-List-Checker/internal/domain/entities"
	"github.com/timoncotraci/To-Do-List-Checker/internal/infrastructure/logger"
	"github.com/timoncotraci/To-Do-List-Checker/internal/ports"
)

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Register handles account registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	status, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrEmptyCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "Please enter username and password to register.")
		case errors.Is(err, entities.ErrSessionActive):
			return echo.NewHTTPError(http.StatusConflict, "Log out before re-registering")
		default:
			h.logger.Error("Register failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
		}
	}

	return c.JSON(http.StatusCreated, status)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	session, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrNoAccount):
			return echo.NewHTTPError(http.StatusUnauthorized, "No registered account found — please register first.")
		case errors.Is(err, entities.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password.")
		case errors.Is(err, entities.ErrSessionActive):
			return echo.NewHTTPError(http.StatusConflict, "Already logged in")
		default:
			h.logger.Error("Login failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
		}
	}

	return c.JSON(http.StatusOK, session)
}

// Logout handles user logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		if errors.Is(err, entities.ErrNotLoggedIn) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not logged in")
		}
		h.logger.Error("Logout failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Status reports the authentication stage
func (h *AuthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.authService.Status())
}

// TaskHandler handles task collection requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// List returns the search-and-sort view of the collection
func (h *TaskHandler) List(c echo.Context) error {
	query := c.QueryParam("q")
	order := entities.SortOrder(c.QueryParam("order"))

	return c.JSON(http.StatusOK, h.taskService.View(query, order))
}

// Create adds a task
func (h *TaskHandler) Create(c echo.Context) error {
	var req ports.AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.Add(c.Request().Context(), req.Text)
	if err != nil {
		if errors.Is(err, entities.ErrEmptyTaskText) {
			return echo.NewHTTPError(http.StatusBadRequest, "Task text is required")
		}
		h.logger.Error("Add task failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add task")
	}

	return c.JSON(http.StatusCreated, task)
}

// Toggle flips a task's done flag
func (h *TaskHandler) Toggle(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Toggle(c.Request().Context(), id); err != nil {
		h.logger.Error("Toggle task failed", "error", err, "task_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle task")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

// Move swaps a task with its neighbor in storage order
func (h *TaskHandler) Move(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req ports.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Direction must be up or down")
	}

	if err := h.taskService.Move(c.Request().Context(), id, req.Direction); err != nil {
		h.logger.Error("Move task failed", "error", err, "task_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to move task")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

// Delete removes a task
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Remove(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete task")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

// Clear empties the collection after explicit confirmation
func (h *TaskHandler) Clear(c echo.Context) error {
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))

	if err := h.taskService.ClearAll(c.Request().Context(), confirmed); err != nil {
		if errors.Is(err, entities.ErrConfirmationRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Pass confirm=true to clear all tasks")
		}
		h.logger.Error("Clear tasks failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear tasks")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}
	return id, nil
}

// HistoryHandler serves the action log
type HistoryHandler struct {
	historyService ports.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List returns the log, newest first
func (h *HistoryHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"history": h.historyService.Entries()})
}

// SettingsHandler serves the theme/order preferences
type SettingsHandler struct {
	settingsService ports.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService ports.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, logger: logger}
}

// Get returns the current preferences
func (h *SettingsHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.Get())
}

// Update overwrites the provided preferences
func (h *SettingsHandler) Update(c echo.Context) error {
	var req ports.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Theme must be light/dark, order newest/oldest")
	}

	settings, err := h.settingsService.Update(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Update settings failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, settings)
}

// BackupHandler serves export and import of the portable snapshot
type BackupHandler struct {
	backupService ports.BackupService
	logger        *logger.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService ports.BackupService, logger *logger.Logger) *BackupHandler {
	return &BackupHandler{backupService: backupService, logger: logger}
}

// Export ships the current state as a JSON attachment
func (h *BackupHandler) Export(c echo.Context) error {
	doc, err := h.backupService.Export()
	if err != nil {
		h.logger.Error("Export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Export failed")
	}

	filename := fmt.Sprintf("todo-backup-%s.json", time.Now().UTC().Format(time.RFC3339))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.JSONPretty(http.StatusOK, doc, "  ")
}

// Import applies an uploaded backup document. It accepts either a multipart
// upload under the "file" field or a raw JSON body.
func (h *BackupHandler) Import(c echo.Context) error {
	body := c.Request().Body

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			h.logger.Error("Open uploaded backup failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid file")
		}
		defer f.Close()
		body = f
	}

	if err := h.backupService.Import(c.Request().Context(), body); err != nil {
		if errors.Is(err, entities.ErrInvalidBackup) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid file")
		}
		h.logger.Error("Import failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Import failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Backup imported"})
}
