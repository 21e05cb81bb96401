package payroll

import "go-thread/internal/domain"

// PayrollLine is one row of a breakdown. Deductions are reported as positive
// amounts with Deduction set.
type PayrollLine struct {
	Label     string        `json:"label"`
	Amount    domain.Amount `json:"amount"`
	Deduction bool          `json:"deduction"`
}

type PayrollResponse struct {
	UserID      string            `json:"userId"`
	EmployeeID  string            `json:"employeeId"`
	Name        string            `json:"name"`
	Designation string            `json:"designation,omitempty"`
	Department  string            `json:"department,omitempty"`
	CompanyID   string            `json:"companyId"`
	CompanyName string            `json:"companyName"`
	Salary      domain.SalaryInfo `json:"salary"`
	Lines       []PayrollLine     `json:"lines"`
	NetPay      domain.Amount     `json:"netPay"`
}

type SummaryResponse struct {
	CompanyID   string        `json:"companyId"`
	HeadCount   int           `json:"headCount"`
	WagePool    domain.Amount `json:"wagePool"`
	NetPayTotal domain.Amount `json:"netPayTotal"`
}

func breakdown(s domain.SalaryInfo) []PayrollLine {
	return []PayrollLine{
		{Label: "Basic", Amount: s.Basic},
		{Label: "House Rent Allowance", Amount: s.HRA},
		{Label: "Allowances", Amount: s.Allowances},
		{Label: "Bonus", Amount: s.Bonus},
		{Label: "Extra Wages", Amount: s.ExtraWages},
		{Label: "Provident Fund", Amount: s.PF, Deduction: true},
		{Label: "Professional Tax", Amount: s.Tax, Deduction: true},
		{Label: "Deductions", Amount: s.Deductions, Deduction: true},
	}
}

func toResponse(u domain.User) PayrollResponse {
	return PayrollResponse{
		UserID:      u.ID,
		EmployeeID:  u.EmployeeID,
		Name:        u.Name,
		Designation: u.Designation,
		Department:  u.Department,
		CompanyID:   u.CompanyID,
		CompanyName: u.CompanyName,
		Salary:      u.Salary,
		Lines:       breakdown(u.Salary),
		NetPay:      u.Salary.NetPay(),
	}
}
