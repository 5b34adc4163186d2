package audit

import "time"

// Action labels what happened to a task.
type Action string

const (
	ActionTaskCreated       Action = "task.created"
	ActionTaskUpdated       Action = "task.updated"
	ActionTaskStatusChanged Action = "task.status_changed"
	ActionTaskDeleted       Action = "task.deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Actor is empty for
// anonymous API calls.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
	TaskID    string    `json:"taskId"`
	Action    Action    `json:"action"`
}
