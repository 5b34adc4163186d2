package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskshare/internal/platform/middleware"
	"taskshare/internal/task"
	"taskshare/internal/transport/http/shared"
	dErrors "taskshare/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/task_mocks.go -package=mocks Service

// Service defines the interface for task operations.
type Service interface {
	Create(ctx context.Context, p task.CreateParams) (*task.Task, error)
	List(ctx context.Context, email string) ([]*task.Task, error)
	Update(ctx context.Context, id, actor string, fields task.UpdateFields) (*task.Task, error)
	Delete(ctx context.Context, id, actor string) error
	SetStatus(ctx context.Context, id, actor string, status task.Status) (*task.Task, error)
}

// Handler handles the /todos endpoints.
type Handler struct {
	logger    *slog.Logger
	tasks     Service
	validator middleware.TokenValidator
}

// New creates a task Handler. validator may be nil when the deployment runs
// without the identity service; the API then serves anonymous callers only.
func New(tasks Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		tasks:     tasks,
		validator: validator,
	}
}

// Register mounts the task routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	taskRouter := chi.NewRouter()
	taskRouter.Use(middleware.Timeout(30 * time.Second))
	taskRouter.Use(middleware.ContentTypeJSON)
	if h.validator != nil {
		taskRouter.Use(middleware.OptionalAuth(h.validator, h.logger))
	}
	taskRouter.Post("/", h.handleCreate)
	taskRouter.Get("/", h.handleList)
	taskRouter.Put("/{id}", h.handleUpdate)
	taskRouter.Delete("/{id}", h.handleDelete)
	taskRouter.Patch("/{id}/status", h.handleSetStatus)

	r.Mount("/todos", taskRouter)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid create request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Title, description, and userEmail are required"))
		return
	}

	created, err := h.tasks.Create(ctx, task.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		OwnerEmail:  req.UserEmail,
		Status:      task.Status(req.Status),
		SharedWith:  req.SharedWith,
	})
	if err != nil {
		h.logFailure(ctx, "create task", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.tasks.List(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.logFailure(ctx, "list tasks", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid update request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	fields := task.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		SharedWith:  req.SharedWith,
	}
	if req.Status != nil && *req.Status != "" {
		status, err := task.ParseStatus(*req.Status)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		fields.Status = &status
	}

	updated, err := h.tasks.Update(ctx, id, middleware.GetEmail(ctx), fields)
	if err != nil {
		h.logFailure(ctx, "update task", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.tasks.Delete(ctx, id, middleware.GetEmail(ctx)); err != nil {
		h.logFailure(ctx, "delete task", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Todo deleted successfully",
	})
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid status request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid status"))
		return
	}

	status, err := task.ParseStatus(req.Status)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	updated, err := h.tasks.SetStatus(ctx, id, middleware.GetEmail(ctx), status)
	if err != nil {
		h.logFailure(ctx, "set task status", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}

// logFailure records internal failures at error level and expected domain
// failures at warn; the client only ever sees the domain message.
func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.warn(ctx, op+" rejected", err)
}
