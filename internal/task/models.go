package task

import (
	"strings"

	dErrors "taskshare/pkg/domain-errors"
)

// Status is the task lifecycle state.
// Invariant: always one of the two enumerated values.
//
// Construct via ParseStatus at trust boundaries; direct casting bypasses
// validation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusCompleted: true,
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "Invalid status")
	}
	return st, nil
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is the system's only persisted entity. OwnerEmail is set once at
// creation and never mutable through updates; SharedWith grants read/update
// visibility and never contains the owner (owner access is derived from the
// OwnerEmail match, not list membership).
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	OwnerEmail  string   `json:"userEmail"`
	Status      Status   `json:"status"`
	SharedWith  []string `json:"sharedWith"`
}

// VisibleTo reports whether email may see this task: owner or listed sharer.
// Matching is case-insensitive; shares are stored lowercased but owner and
// caller emails arrive in whatever case the client typed.
func (t *Task) VisibleTo(email string) bool {
	if strings.EqualFold(t.OwnerEmail, email) {
		return true
	}
	for _, s := range t.SharedWith {
		if strings.EqualFold(s, email) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so store internals never alias caller memory.
func (t *Task) Clone() *Task {
	cp := *t
	cp.SharedWith = append([]string{}, t.SharedWith...)
	return &cp
}
