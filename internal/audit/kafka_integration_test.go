//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"taskshare/internal/audit"
	"taskshare/pkg/testutil/containers"
)

func TestKafkaPublisherProducesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	topic := "taskshare.audit.test"

	publisher, err := audit.NewKafkaPublisher(ctx, []string{broker}, topic)
	require.NoError(t, err)
	defer publisher.Close()

	event := audit.Event{
		Actor:  "alice@example.com",
		TaskID: "task-1",
		Action: audit.ActionTaskCreated,
	}
	require.NoError(t, publisher.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, "task-1", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.Actor, got.Actor)
	require.Equal(t, event.Action, got.Action)
	require.False(t, got.Timestamp.IsZero(), "publisher should stamp the event")
}

func TestKafkaPublisherTopicCreationIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	topic := "taskshare.audit.idempotent"

	first, err := audit.NewKafkaPublisher(ctx, []string{broker}, topic)
	require.NoError(t, err)
	first.Close()

	second, err := audit.NewKafkaPublisher(ctx, []string{broker}, topic)
	require.NoError(t, err)
	second.Close()
}
