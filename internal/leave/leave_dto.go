package leave

import "go-thread/internal/domain"

type SubmitLeaveRequest struct {
	Type       domain.LeaveType `json:"type" binding:"required"`
	StartDate  string           `json:"startDate" binding:"required"`
	EndDate    string           `json:"endDate" binding:"required"`
	Reason     string           `json:"reason"`
	Attachment string           `json:"attachment"`
}

type UpdateStatusRequest struct {
	Status  domain.LeaveStatus `json:"status" binding:"required,leave_decision"`
	Remarks string             `json:"remarks"`
}

type Filter struct {
	Status domain.LeaveStatus
	UserID string
}

type LeaveResponse struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	UserName     string             `json:"userName"`
	CompanyID    string             `json:"companyId"`
	Type         domain.LeaveType   `json:"type"`
	TypeLabel    string             `json:"typeLabel"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	TotalDays    int                `json:"totalDays"`
	Reason       string             `json:"reason"`
	Status       domain.LeaveStatus `json:"status"`
	AdminRemarks string             `json:"adminRemarks,omitempty"`
	Attachment   string             `json:"attachment,omitempty"`
	CreatedAt    string             `json:"createdAt,omitempty"`
}

// BalanceResponse reports days used against the yearly allowance. Total and
// Remaining are nil for unlimited types.
type BalanceResponse struct {
	Type      domain.LeaveType `json:"type"`
	Label     string           `json:"label"`
	Used      int              `json:"used"`
	Total     *int             `json:"total"`
	Remaining *int             `json:"remaining"`
}

func ToResponse(l domain.LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		UserName:     l.UserName,
		CompanyID:    l.CompanyID,
		Type:         l.Type,
		TypeLabel:    l.Type.Label(),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		TotalDays:    TotalDays(l),
		Reason:       l.Reason,
		Status:       l.Status,
		AdminRemarks: l.AdminRemarks,
		Attachment:   l.Attachment,
		CreatedAt:    l.CreatedAt,
	}
}
