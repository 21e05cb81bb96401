package domain

import "strings"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Presence is the live attendance snapshot kept on a user.
type Presence string

const (
	PresencePresent Presence = "PRESENT"
	PresenceLeave   Presence = "LEAVE"
	PresenceAbsent  Presence = "ABSENT"
)

func (p Presence) Valid() bool {
	return p == PresencePresent || p == PresenceLeave || p == PresenceAbsent
}

const (
	AdminEmailDomain    = "@admin.com"
	EmployeeEmailDomain = "@employee.com"
)

type User struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	CompanyID      string     `json:"companyId"`
	CompanyName    string     `json:"companyName"`
	CompanyLogo    string     `json:"companyLogo,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address,omitempty"`
	ProfilePhoto   string     `json:"profilePhoto,omitempty"`
	Role           Role       `json:"role"`
	Salary         SalaryInfo `json:"salary"`
	JoiningYear    int        `json:"joiningYear"`
	Status         Presence   `json:"status"`
	Password       string     `json:"password,omitempty"`
	IsFirstLogin   bool       `json:"isFirstLogin"`
	Designation    string     `json:"designation,omitempty"`
	Department     string     `json:"department,omitempty"`
	Manager        string     `json:"manager,omitempty"`
	EmploymentType string     `json:"employmentType,omitempty"`
	Location       string     `json:"location,omitempty"`
	About          string     `json:"about,omitempty"`
}

// RoleForEmail derives the role from the email domain suffix. ok is false
// when the suffix is not one of the recognised company domains.
func RoleForEmail(email string) (role Role, ok bool) {
	e := strings.ToLower(strings.TrimSpace(email))
	switch {
	case strings.HasSuffix(e, AdminEmailDomain):
		return RoleAdmin, true
	case strings.HasSuffix(e, EmployeeEmailDomain):
		return RoleEmployee, true
	default:
		return "", false
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session returns the explicit session for u.
func (u User) Session() Session {
	return Session{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role}
}
