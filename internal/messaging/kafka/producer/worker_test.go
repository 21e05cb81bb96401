package producer

import (
	"context"
	"errors"
	"testing"

	"go-thread/internal/messaging/kafka"
	"go-thread/internal/storage/memory"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failFor map[string]bool
	written []kafkago.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if w.failFor[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()
	repo := kafka.NewOutboxRepository(memory.New())

	require.NoError(t, repo.Create(ctx, kafka.OutboxEvent{
		ID: "e1", Topic: "thread.leave.decision.v1", AggregateType: "leave", AggregateID: "l1",
		EventType: "leave.decided", Payload: []byte(`{}`),
	}))
	require.NoError(t, repo.Create(ctx, kafka.OutboxEvent{
		ID: "e2", Topic: "thread.leave.decision.v1", AggregateType: "leave", AggregateID: "l2",
		EventType: "leave.decided", Payload: []byte(`{}`),
	}))

	writer := &fakeWriter{failFor: map[string]bool{"l2": true}}
	sent, err := ProcessPendingEvents(ctx, repo, writer, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, writer.written, 1)
	msg := writer.written[0]
	assert.Equal(t, "l1", string(msg.Key))
	assert.Equal(t, "thread.leave.decision.v1", msg.Topic)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "leave.decided", string(msg.Headers[0].Value))

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "sent event removed and failed event deferred")
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	sent, err := ProcessPendingEvents(context.Background(), kafka.NewOutboxRepository(memory.New()), &fakeWriter{}, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, sent)
}
