package attendance

import "go-thread/internal/domain"

type CheckInRequest struct {
	Date       *string          `json:"date"`
	CheckIn    *string          `json:"checkIn"`
	Status     *domain.Presence `json:"status" binding:"omitempty,presence"`
	WorkHours  *float64         `json:"workHours" binding:"omitempty,gte=0"`
	ExtraHours *float64         `json:"extraHours" binding:"omitempty,gte=0"`
}

// CheckOutRequest carries an optional check-out time. The current time is
// used when it is empty.
type CheckOutRequest struct {
	CheckOut *string `json:"checkOut"`
}

type UpdateAttendanceRequest struct {
	CheckIn    *string          `json:"checkIn"`
	CheckOut   *string          `json:"checkOut"`
	Status     *domain.Presence `json:"status" binding:"omitempty,presence"`
	WorkHours  *float64         `json:"workHours" binding:"omitempty,gte=0"`
	ExtraHours *float64         `json:"extraHours" binding:"omitempty,gte=0"`
}

type Filter struct {
	UserID string
	Date   string
}

type AttendanceResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	UserName   string          `json:"userName"`
	CompanyID  string          `json:"companyId"`
	Date       string          `json:"date"`
	CheckIn    string          `json:"checkIn,omitempty"`
	CheckOut   string          `json:"checkOut,omitempty"`
	WorkHours  float64         `json:"workHours"`
	ExtraHours float64         `json:"extraHours"`
	Status     domain.Presence `json:"status"`
}

type UserSummary struct {
	UserID     string  `json:"userId"`
	UserName   string  `json:"userName"`
	Present    int     `json:"present"`
	Leave      int     `json:"leave"`
	Absent     int     `json:"absent"`
	WorkHours  float64 `json:"workHours"`
	ExtraHours float64 `json:"extraHours"`
}

type SummaryResponse struct {
	Date         string        `json:"date"`
	PresentToday int           `json:"presentToday"`
	Present      int           `json:"present"`
	Leave        int           `json:"leave"`
	Absent       int           `json:"absent"`
	WorkHours    float64       `json:"workHours"`
	ExtraHours   float64       `json:"extraHours"`
	Users        []UserSummary `json:"users"`
}

func ToResponse(r domain.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		CompanyID:  r.CompanyID,
		Date:       r.Date,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		WorkHours:  r.WorkHours,
		ExtraHours: r.ExtraHours,
		Status:     r.Status,
	}
}
