package payroll_test

import (
	"bytes"
	"context"
	"testing"

	"go-thread/internal/domain"
	"go-thread/internal/payroll"
	payrollerrors "go-thread/internal/payroll/errors"
	"go-thread/internal/rbac"
	"go-thread/internal/rbac/infra"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/user"
	"go-thread/internal/workforce/workforcetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payrollServiceDeps struct {
	service payroll.Service
	admin   domain.User
	emp     domain.User
	peer    domain.User
	other   domain.User
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()
	store, _ := workforcetest.Open(t)

	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies())
	require.NoError(t, err)

	admin := workforcetest.Admin("admin1")
	emp := workforcetest.Employee("emp1", admin.CompanyID)
	emp.Designation, emp.Department = "Software Engineer", "Technology"
	emp.Salary.ExtraWages = 1500
	emp.Salary.Deductions = 500
	peer := workforcetest.Employee("emp2", admin.CompanyID)
	peer.Salary = domain.DeriveSalary(30000, domain.WageMonthly)
	other := workforcetest.Employee("emp9", "globex")
	workforcetest.Seed(t, store, []domain.User{admin, emp, peer, other}, nil, nil)

	svc := payroll.NewService(store, user.NewRepository(), rbac.NewService(enforcer))
	return &payrollServiceDeps{service: svc, admin: admin, emp: emp, peer: peer, other: other}
}

func TestPayrollService_GetPayroll(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)

	t.Run("employee reads own breakdown", func(t *testing.T) {
		resp, err := deps.service.GetPayroll(ctx, deps.emp.Session(), "")
		require.NoError(t, err)

		assert.Equal(t, "emp1", resp.UserID)
		assert.Equal(t, domain.Amount(25000), resp.Salary.Basic)
		// 50000 + 1500 extra + 5000 bonus - 500 deductions
		assert.Equal(t, domain.Amount(56000), resp.NetPay)
		require.Len(t, resp.Lines, 8)
		assert.Equal(t, "Provident Fund", resp.Lines[5].Label)
		assert.True(t, resp.Lines[5].Deduction)
		assert.Equal(t, domain.Amount(3000), resp.Lines[5].Amount)
	})

	t.Run("admin reads colleague", func(t *testing.T) {
		resp, err := deps.service.GetPayroll(ctx, deps.admin.Session(), "emp2")
		require.NoError(t, err)
		assert.Equal(t, domain.Amount(30000), resp.Salary.TotalWage)
	})

	t.Run("denials", func(t *testing.T) {
		_, err := deps.service.GetPayroll(ctx, deps.emp.Session(), "emp2")
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollForbidden)

		_, err = deps.service.GetPayroll(ctx, deps.admin.Session(), "admin1")
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollForbidden)

		_, err = deps.service.GetPayroll(ctx, deps.admin.Session(), "emp9")
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		_, err = deps.service.GetPayroll(ctx, deps.admin.Session(), "ghost")
		assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)

		_, err = deps.service.GetPayroll(ctx, domain.Session{}, "emp1")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestPayrollService_Payslip(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)

	pdf, err := deps.service.Payslip(ctx, deps.admin.Session(), "emp1", "2024-03")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4")))
	assert.True(t, bytes.HasSuffix(pdf, []byte("%%EOF")))
	assert.Contains(t, string(pdf), "Acme Corp - Payslip March 2024")
	assert.Contains(t, string(pdf), "Employee: John Smith \\(EMP-emp1\\)")
	assert.Contains(t, string(pdf), "Net pay: INR 56,000")

	_, err = deps.service.Payslip(ctx, deps.emp.Session(), "", "")
	assert.NoError(t, err)

	_, err = deps.service.Payslip(ctx, deps.admin.Session(), "emp1", "March 2024")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)

	_, err = deps.service.Payslip(ctx, deps.emp.Session(), "emp2", "2024-03")
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollForbidden)
}

func TestPayrollService_Summary(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)

	summary, err := deps.service.Summary(ctx, deps.admin.Session())
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", summary.CompanyID)
	assert.Equal(t, 3, summary.HeadCount)
	assert.Equal(t, domain.Amount(130000), summary.WagePool)
	// 55000 admin + 56000 emp1 + 33000 emp2
	assert.Equal(t, domain.Amount(144000), summary.NetPayTotal)

	_, err = deps.service.Summary(ctx, deps.emp.Session())
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollForbidden)
}
