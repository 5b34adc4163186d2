package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrInboxFull reports a dropped event when the worker cannot keep up.
var ErrInboxFull = errors.New("audit inbox full, event dropped")

// Worker consumes audit events from a channel and persists them, decoupling
// request latency from the sink. Used with the channel-fed publisher in
// deployments where the sink is the local store.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is cancelled. Append failures are
// logged and skipped; the trail is best-effort.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"action", string(event.Action),
					"task_id", event.TaskID,
					"error", err.Error(),
				)
			}
		}
	}
}

// ChannelPublisher hands events to a Worker through a buffered channel.
// Emit never blocks; if the buffer is full the event is dropped and reported.
type ChannelPublisher struct {
	outbox chan<- Event
}

func NewChannelPublisher(outbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{outbox: outbox}
}

func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.outbox <- event:
		return nil
	default:
		return ErrInboxFull
	}
}
