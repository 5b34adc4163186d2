package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the task domain counters.
type Metrics struct {
	TasksCreated prometheus.Counter
	TasksUpdated prometheus.Counter
	TasksDeleted prometheus.Counter
}

// IncCreated records a task creation. Safe on a nil receiver so tests can
// run without a registry.
func (m *Metrics) IncCreated() {
	if m != nil {
		m.TasksCreated.Inc()
	}
}

// IncUpdated records a task update.
func (m *Metrics) IncUpdated() {
	if m != nil {
		m.TasksUpdated.Inc()
	}
}

// IncDeleted records a task deletion.
func (m *Metrics) IncDeleted() {
	if m != nil {
		m.TasksDeleted.Inc()
	}
}

// New creates and registers the task metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		TasksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskshare_tasks_created_total",
			Help: "Total number of tasks created",
		}),
		TasksUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskshare_tasks_updated_total",
			Help: "Total number of task updates, including status changes",
		}),
		TasksDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskshare_tasks_deleted_total",
			Help: "Total number of tasks deleted",
		}),
	}
}
