package user

import "go-thread/internal/domain"

type AddEmployeeRequest struct {
	FirstName     string         `json:"firstName" binding:"required"`
	LastName      string         `json:"lastName" binding:"required"`
	Email         string         `json:"email" binding:"required,email"`
	Phone         string         `json:"phone" binding:"required"`
	YearOfJoining int            `json:"yearOfJoining"`
	TotalWage     *domain.Amount `json:"totalWage"`
}

type AddEmployeeResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporaryPassword"`
}

type SalaryUpdate struct {
	WageType   *domain.WageType `json:"wageType" binding:"omitempty,wage_type"`
	TotalWage  *domain.Amount   `json:"totalWage"`
	ExtraWages *domain.Amount   `json:"extraWages"`
	Deductions *domain.Amount   `json:"deductions"`
}

// UpdateUserRequest is a partial update. Nil fields are left unchanged.
// Email and company fields are not updatable.
type UpdateUserRequest struct {
	// contact
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	ProfilePhoto *string `json:"profilePhoto"`
	About        *string `json:"about"`

	// work
	Name           *string          `json:"name"`
	Designation    *string          `json:"designation"`
	Department     *string          `json:"department"`
	Manager        *string          `json:"manager"`
	EmploymentType *string          `json:"employmentType"`
	Location       *string          `json:"location"`
	JoiningYear    *int             `json:"joiningYear"`
	Status         *domain.Presence `json:"status" binding:"omitempty,presence"`

	Salary *SalaryUpdate `json:"salary"`
}

type UserResponse struct {
	ID             string             `json:"id"`
	EmployeeID     string             `json:"employeeId"`
	CompanyID      string             `json:"companyId"`
	CompanyName    string             `json:"companyName"`
	CompanyLogo    string             `json:"companyLogo,omitempty"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address,omitempty"`
	ProfilePhoto   string             `json:"profilePhoto,omitempty"`
	Role           domain.Role        `json:"role"`
	Salary         *domain.SalaryInfo `json:"salary,omitempty"`
	JoiningYear    int                `json:"joiningYear"`
	Status         domain.Presence    `json:"status"`
	IsFirstLogin   bool               `json:"isFirstLogin"`
	Designation    string             `json:"designation,omitempty"`
	Department     string             `json:"department,omitempty"`
	Manager        string             `json:"manager,omitempty"`
	EmploymentType string             `json:"employmentType,omitempty"`
	Location       string             `json:"location,omitempty"`
	About          string             `json:"about,omitempty"`
}

// ToResponse drops the password. The salary is included only when
// withSalary is set.
func ToResponse(u domain.User, withSalary bool) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		EmployeeID:     u.EmployeeID,
		CompanyID:      u.CompanyID,
		CompanyName:    u.CompanyName,
		CompanyLogo:    u.CompanyLogo,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Address:        u.Address,
		ProfilePhoto:   u.ProfilePhoto,
		Role:           u.Role,
		JoiningYear:    u.JoiningYear,
		Status:         u.Status,
		IsFirstLogin:   u.IsFirstLogin,
		Designation:    u.Designation,
		Department:     u.Department,
		Manager:        u.Manager,
		EmploymentType: u.EmploymentType,
		Location:       u.Location,
		About:          u.About,
	}
	if withSalary {
		salary := u.Salary
		resp.Salary = &salary
	}
	return resp
}
