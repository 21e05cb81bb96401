package events

import "time"

const (
	LeaveDecisionTopic = "thread.leave.decision.v1"
	LeaveDecidedType   = "leave.decided"
)

type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	UserID     string    `json:"user_id"`
	CompanyID  string    `json:"company_id"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	Remarks    string    `json:"remarks,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
