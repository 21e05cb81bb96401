package domain

const (
	DateLayout = "2006-01-02"
	TimeLayout = "03:04 PM"

	StandardWorkHours = 8.0
)

type AttendanceRecord struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	UserName   string   `json:"userName"`
	CompanyID  string   `json:"companyId"`
	Date       string   `json:"date"`
	CheckIn    string   `json:"checkIn,omitempty"`
	CheckOut   string   `json:"checkOut,omitempty"`
	WorkHours  float64  `json:"workHours"`
	ExtraHours float64  `json:"extraHours"`
	Status     Presence `json:"status"`
}

func (r AttendanceRecord) CheckedOut() bool {
	return r.CheckOut != ""
}
