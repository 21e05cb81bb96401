package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-thread/internal/storage"
	"go-thread/internal/workforce"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusFailed  = "failed"

	maxErrorMessage = 500
	retryStep       = 15 * time.Second
	maxRetrySteps   = 10
)

type OutboxEvent struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id,omitempty"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	EventType     string    `json:"event_type"`
	Topic         string    `json:"topic"`
	Payload       []byte    `json:"payload"`
	Status        string    `json:"status"`
	RetryCount    int       `json:"retry_count"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	NextRetryAt   time.Time `json:"next_retry_at"`
}

// OutboxRepository stores integration events next to the workforce records
// so they commit atomically with the change that produced them.
type OutboxRepository interface {
	WithTx(tx *workforce.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	kv  storage.Store
	tx  *workforce.Tx
	now func() time.Time
}

func NewOutboxRepository(kv storage.Store) OutboxRepository {
	return &outboxRepository{kv: kv, now: time.Now}
}

func (r *outboxRepository) WithTx(tx *workforce.Tx) OutboxRepository {
	return &outboxRepository{kv: r.kv, tx: tx, now: r.now}
}

func outboxKey(id string) string {
	return workforce.OutboxPrefix + id
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now().UTC()
	}
	if event.NextRetryAt.IsZero() {
		event.NextRetryAt = event.CreatedAt
	}
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode outbox event: %w", err)
	}
	if r.tx != nil {
		return r.tx.PutRaw(outboxKey(event.ID), b)
	}
	return r.kv.Put(ctx, outboxKey(event.ID), b)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	entries, err := r.kv.List(ctx, workforce.OutboxPrefix)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	events := make([]OutboxEvent, 0, len(entries))
	for _, e := range entries {
		var ev OutboxEvent
		if err := json.Unmarshal(e.Value, &ev); err != nil {
			continue
		}
		if ev.Status != OutboxStatusPending && ev.Status != OutboxStatusFailed {
			continue
		}
		if ev.NextRetryAt.After(now) {
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// MarkSent removes the event; delivered events are not retained.
func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, outboxKey(id))
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	raw, err := r.kv.Get(ctx, outboxKey(id))
	if err != nil {
		return err
	}
	var ev OutboxEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("decode outbox event: %w", err)
	}

	ev.Status = OutboxStatusFailed
	ev.RetryCount++
	if len(reason) > maxErrorMessage {
		reason = reason[:maxErrorMessage]
	}
	ev.ErrorMessage = reason
	steps := ev.RetryCount
	if steps > maxRetrySteps {
		steps = maxRetrySteps
	}
	ev.NextRetryAt = r.now().UTC().Add(time.Duration(steps) * retryStep)

	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode outbox event: %w", err)
	}
	return r.kv.Put(ctx, outboxKey(id), b)
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
