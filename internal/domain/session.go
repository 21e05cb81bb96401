package domain

// Session identifies the caller of a store operation. The zero value is an
// unauthenticated caller.
type Session struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
}

func (s Session) IsZero() bool {
	return s.UserID == ""
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// SameCompany reports whether companyID is visible to the session.
func (s Session) SameCompany(companyID string) bool {
	return !s.IsZero() && s.CompanyID == companyID
}
