package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-thread/internal/bootstrap"
	"go-thread/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeAuditTrail records employee and leave events in the audit log.
// Undecodable messages are committed and skipped.
func ConsumeAuditTrail(
	ctx context.Context,
	reader MessageReader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit_trail")
	log.Info("audit trail consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit trail consumer stopped")
				return
			}
			log.Error("fetch audit message failed", zap.Error(err))
			continue
		}

		entry, err := auditEntry(msg)
		if err != nil {
			log.Error("decode audit event failed",
				zap.String("topic", msg.Topic),
				zap.Error(err),
			)
		} else {
			auditLogger.Log(ctx, entry)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit message failed", zap.Error(err))
			continue
		}
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func auditEntry(msg kafkago.Message) (bootstrap.AuditLog, error) {
	eventType := header(msg, "event_type")

	switch eventType {
	case events.EmployeeAddedType:
		var ev events.EmployeeAddedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			return bootstrap.AuditLog{}, err
		}
		return bootstrap.AuditLog{
			Action:  "EMPLOYEE_ADDED",
			Message: fmt.Sprintf("employee %s added to %s", ev.EmployeeCode, ev.CompanyID),
			Meta: map[string]any{
				"user_id":    ev.UserID,
				"company_id": ev.CompanyID,
				"added_by":   ev.AddedBy,
				"request_id": ev.RequestID,
			},
		}, nil
	case events.LeaveDecidedType:
		var ev events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			return bootstrap.AuditLog{}, err
		}
		return bootstrap.AuditLog{
			Action:  "LEAVE_DECIDED",
			Message: fmt.Sprintf("leave %s %s", ev.LeaveID, ev.Status),
			Meta: map[string]any{
				"user_id":    ev.UserID,
				"company_id": ev.CompanyID,
				"decided_by": ev.DecidedBy,
				"request_id": ev.RequestID,
			},
		}, nil
	default:
		return bootstrap.AuditLog{}, fmt.Errorf("unknown event type %q", eventType)
	}
}
