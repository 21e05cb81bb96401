// Package workforcetest opens in-memory stores for tests.
package workforcetest

import (
	"context"
	"testing"

	"go-thread/internal/domain"
	"go-thread/internal/storage/memory"
	"go-thread/internal/workforce"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Open returns an empty store backed by memory and the backing KV.
func Open(t *testing.T) (*workforce.Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	store, err := workforce.Open(context.Background(), kv, zap.NewNop())
	require.NoError(t, err)
	return store, kv
}

// Seed commits the given records in one transaction.
func Seed(t *testing.T, store *workforce.Store, users []domain.User, attendance []domain.AttendanceRecord, leaves []domain.LeaveRequest) {
	t.Helper()
	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()

	for _, u := range users {
		require.NoError(t, tx.PutUser(u))
	}
	for _, r := range attendance {
		require.NoError(t, tx.PutAttendance(r))
	}
	for _, l := range leaves {
		require.NoError(t, tx.PutLeave(l))
	}
	require.NoError(t, tx.Commit())
}

// User reads a committed user.
func User(t *testing.T, store *workforce.Store, id string) domain.User {
	t.Helper()
	var (
		u  domain.User
		ok bool
	)
	require.NoError(t, store.Read(context.Background(), func(tx *workforce.Tx) error {
		u, ok = tx.User(id)
		return nil
	}))
	require.True(t, ok, "user %s not found", id)
	return u
}

// Admin and Employee build users of company "acme-corp".
func Admin(id string) domain.User {
	return domain.User{
		ID:          id,
		EmployeeID:  "ACJADO20240001",
		CompanyID:   "acme-corp",
		CompanyName: "Acme Corp",
		Name:        "Jane Doe",
		Email:       id + "@admin.com",
		Phone:       "9876543210",
		Role:        domain.RoleAdmin,
		Salary:      domain.DeriveSalary(domain.DefaultTotalWage, domain.WageMonthly),
		JoiningYear: 2024,
		Status:      domain.PresenceAbsent,
	}
}

func Employee(id, companyID string) domain.User {
	return domain.User{
		ID:          id,
		EmployeeID:  "EMP-" + id,
		CompanyID:   companyID,
		CompanyName: "Acme Corp",
		Name:        "John Smith",
		Email:       id + "@employee.com",
		Phone:       "0123456789",
		Role:        domain.RoleEmployee,
		Salary:      domain.DeriveSalary(domain.DefaultTotalWage, domain.WageMonthly),
		JoiningYear: 2024,
		Status:      domain.PresenceAbsent,
	}
}
