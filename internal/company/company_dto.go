package company

import "go-thread/internal/domain"

type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Logo      string `json:"logo,omitempty"`
	HeadCount int    `json:"headCount"`
}

type UpdateCompanyRequest struct {
	Name *string `json:"name"`
	Logo *string `json:"logo"`
}

type AdminStats struct {
	TotalEmployees int           `json:"totalEmployees"`
	PresentToday   int           `json:"presentToday"`
	PendingLeaves  int           `json:"pendingLeaves"`
	PayrollTotal   domain.Amount `json:"payrollTotal"`
}

type EmployeeStats struct {
	DaysPresent     int    `json:"daysPresent"`
	LeavesRemaining int    `json:"leavesRemaining"`
	LastCheckIn     string `json:"lastCheckIn"`
}

// DashboardResponse carries the stats matching the caller's role.
type DashboardResponse struct {
	Role     domain.Role     `json:"role"`
	Company  CompanyResponse `json:"company"`
	Admin    *AdminStats     `json:"admin,omitempty"`
	Employee *EmployeeStats  `json:"employee,omitempty"`
}

func mapToResponse(c domain.Company, headCount int) CompanyResponse {
	return CompanyResponse{ID: c.ID, Name: c.Name, Logo: c.Logo, HeadCount: headCount}
}
