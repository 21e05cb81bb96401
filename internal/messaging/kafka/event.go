package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"go-thread/internal/shared/contextutil"

	"github.com/google/uuid"
)

// NewOutboxEvent encodes payload into a pending event for aggregateID.
func NewOutboxEvent(ctx context.Context, topic, eventType, aggregateType, aggregateID string, payload any) (OutboxEvent, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       b,
		Status:        OutboxStatusPending,
	}, nil
}
