package audit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/audit"
)

func TestWorkerPersistsPublishedEvents(t *testing.T) {
	store := audit.NewInMemoryStore()
	inbox := make(chan audit.Event, 8)
	publisher := audit.NewChannelPublisher(inbox)
	worker := audit.NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	err := publisher.Emit(context.Background(), audit.Event{
		Actor:  "alice@example.com",
		TaskID: "task-1",
		Action: audit.ActionTaskCreated,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		events, err := store.ListByTask(context.Background(), "task-1")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, audit.ActionTaskCreated, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "publisher should stamp the event")

	cancel()
	<-done
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan audit.Event, 1)
	publisher := audit.NewChannelPublisher(inbox)

	require.NoError(t, publisher.Emit(context.Background(), audit.Event{TaskID: "a"}))
	err := publisher.Emit(context.Background(), audit.Event{TaskID: "b"})
	assert.ErrorIs(t, err, audit.ErrInboxFull)
}

func TestPublisherListFiltersByTask(t *testing.T) {
	store := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(store)
	ctx := context.Background()

	require.NoError(t, publisher.Emit(ctx, audit.Event{TaskID: "a", Action: audit.ActionTaskCreated}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{TaskID: "b", Action: audit.ActionTaskCreated}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{TaskID: "a", Action: audit.ActionTaskDeleted}))

	events, err := publisher.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionTaskDeleted, events[1].Action)
}
