package events

import "time"

const (
	EmployeeLifecycleTopic = "thread.employee.lifecycle.v1"
	EmployeeAddedType      = "employee.added"
)

type EmployeeAddedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	UserID       string    `json:"user_id"`
	EmployeeCode string    `json:"employee_code"`
	CompanyID    string    `json:"company_id"`
	Email        string    `json:"email"`
	AddedBy      string    `json:"added_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
