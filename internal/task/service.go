package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taskshare/internal/audit"
	"taskshare/internal/task/metrics"
	dErrors "taskshare/pkg/domain-errors"
	"taskshare/pkg/platform/sentinel"
	platstrings "taskshare/pkg/platform/strings"
)

// AuditPublisher receives task lifecycle events. Failures are logged, never
// surfaced to the caller.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns task validation, visibility and partial-update semantics.
// Handlers stay thin; stores stay pure I/O.
type Service struct {
	store   Store
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewService(store Store, auditor AuditPublisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		auditor: auditor,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("taskshare/task"),
	}
}

// CreateParams carries the fields of a create request.
type CreateParams struct {
	Title       string
	Description string
	OwnerEmail  string
	Status      Status
	SharedWith  []string
}

// Create validates required fields, applies defaults and persists the task.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.Create")
	defer span.End()

	if p.Title == "" || p.Description == "" || p.OwnerEmail == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Title, description, and userEmail are required")
	}
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid status")
	}

	t := &Task{
		Title:       p.Title,
		Description: p.Description,
		OwnerEmail:  p.OwnerEmail,
		Status:      status,
		SharedWith:  normalizeShares(p.SharedWith, p.OwnerEmail),
	}
	created, err := s.store.Create(ctx, t)
	if err != nil {
		return nil, s.internal(ctx, "create task", err)
	}
	span.SetAttributes(attribute.String("task.id", created.ID))

	s.metrics.IncCreated()
	s.emit(ctx, audit.Event{Actor: p.OwnerEmail, TaskID: created.ID, Action: audit.ActionTaskCreated})
	return created, nil
}

// List returns every task owned by or shared with email, title ascending.
func (s *Service) List(ctx context.Context, email string) ([]*Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.List")
	defer span.End()

	if email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Missing user email in query")
	}
	tasks, err := s.store.ListForEmail(ctx, email)
	if err != nil {
		return nil, s.internal(ctx, "list tasks", err)
	}
	return tasks, nil
}

// Update applies the present fields to the task. The actor, when known, must
// be the owner or a listed sharer; anonymous calls pass through, matching the
// source system's permissive API.
func (s *Service) Update(ctx context.Context, id, actor string, fields UpdateFields) (*Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.Update")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	if err := s.authorize(ctx, id, actor, false); err != nil {
		return nil, err
	}

	fields = sanitizeFields(fields)
	if fields.SharedWith != nil {
		// The owner never rides in sharedWith; stripping needs the current
		// owner, so a share change costs one extra read.
		current, err := s.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "Todo not found")
			}
			return nil, s.internal(ctx, "load task", err)
		}
		normalized := normalizeShares(*fields.SharedWith, current.OwnerEmail)
		fields.SharedWith = &normalized
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Todo not found")
		}
		return nil, s.internal(ctx, "update task", err)
	}

	s.metrics.IncUpdated()
	action := audit.ActionTaskUpdated
	if fields.Status != nil && fields.Title == nil && fields.Description == nil && fields.SharedWith == nil {
		action = audit.ActionTaskStatusChanged
	}
	s.emit(ctx, audit.Event{Actor: actor, TaskID: id, Action: action})
	return updated, nil
}

// Delete removes the task irreversibly. Only the owner may delete when the
// caller is known.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	ctx, span := s.tracer.Start(ctx, "task.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", id))

	if err := s.authorize(ctx, id, actor, true); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Todo not found")
		}
		return s.internal(ctx, "delete task", err)
	}

	s.metrics.IncDeleted()
	s.emit(ctx, audit.Event{Actor: actor, TaskID: id, Action: audit.ActionTaskDeleted})
	return nil
}

// SetStatus is a convenience update restricted to the status field.
func (s *Service) SetStatus(ctx context.Context, id, actor string, status Status) (*Task, error) {
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid status")
	}
	return s.Update(ctx, id, actor, UpdateFields{Status: &status})
}

// authorize checks the actor against the task when an identity is present.
// ownerOnly gates delete; updates are open to sharers as well.
func (s *Service) authorize(ctx context.Context, id, actor string, ownerOnly bool) error {
	if actor == "" {
		return nil
	}
	t, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Todo not found")
		}
		return s.internal(ctx, "load task", err)
	}
	if ownerOnly {
		if !strings.EqualFold(t.OwnerEmail, actor) {
			return dErrors.New(dErrors.CodeForbidden, "Only the owner may delete this task")
		}
		return nil
	}
	if !t.VisibleTo(actor) {
		return dErrors.New(dErrors.CodeForbidden, "Task is not shared with you")
	}
	return nil
}

// sanitizeFields drops present-but-empty title/description updates. Empty
// text would violate the non-empty invariant; legacy clients send empty
// strings meaning "unchanged". A present SharedWith always applies, including
// the empty list, which is how a task gets unshared.
func sanitizeFields(fields UpdateFields) UpdateFields {
	if fields.Title != nil && *fields.Title == "" {
		fields.Title = nil
	}
	if fields.Description != nil && *fields.Description == "" {
		fields.Description = nil
	}
	if fields.SharedWith != nil {
		normalized := platstrings.DedupeAndTrimLower(*fields.SharedWith)
		fields.SharedWith = &normalized
	}
	return fields
}

// normalizeShares dedupes the share list and strips the owner; owner access
// derives from OwnerEmail, never list membership.
func normalizeShares(shares []string, owner string) []string {
	normalized := platstrings.DedupeAndTrimLower(shares)
	result := make([]string, 0, len(normalized))
	ownerLower := strings.ToLower(owner)
	for _, email := range normalized {
		if email != ownerLower {
			result = append(result, email)
		}
	}
	return result
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(event.Action),
			"task_id", event.TaskID,
			"error", err.Error(),
		)
	}
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "store failure",
		"op", op,
		"error", err.Error(),
	)
	return dErrors.Wrap(dErrors.CodeInternal, "Internal Server Error", err)
}
