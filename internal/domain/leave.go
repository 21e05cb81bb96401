package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type LeaveType string

const (
	LeavePTO    LeaveType = "PTO"
	LeaveSick   LeaveType = "SICK"
	LeaveUnpaid LeaveType = "UNPAID"
)

var leaveTypeLabels = map[LeaveType]string{
	LeavePTO:    "Paid Time Off",
	LeaveSick:   "Sick Leave",
	LeaveUnpaid: "Unpaid Leave",
}

// Label is the display name of the leave type.
func (t LeaveType) Label() string {
	if l, ok := leaveTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseLeaveType accepts a code ("PTO") or a display name ("Paid Time Off").
func ParseLeaveType(v string) (LeaveType, error) {
	v = strings.TrimSpace(v)
	for code, label := range leaveTypeLabels {
		if strings.EqualFold(v, string(code)) || strings.EqualFold(v, label) {
			return code, nil
		}
	}
	return "", fmt.Errorf("unknown leave type %q", v)
}

func (t *LeaveType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := ParseLeaveType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// Decided reports whether the status is terminal.
func (s LeaveStatus) Decided() bool {
	return s == LeaveApproved || s == LeaveRejected
}

type LeaveRequest struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	UserName     string      `json:"userName"`
	CompanyID    string      `json:"companyId"`
	Type         LeaveType   `json:"type"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	AdminRemarks string      `json:"adminRemarks,omitempty"`
	Attachment   string      `json:"attachment,omitempty"`
	CreatedAt    string      `json:"createdAt,omitempty"`
}
