package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-thread/internal/auth"
	autherrors "go-thread/internal/auth/errors"
	"go-thread/internal/domain"
	"go-thread/internal/shared/password"
	"go-thread/internal/user"
	"go-thread/internal/workforce"
	"go-thread/internal/workforce/workforcetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authServiceDeps struct {
	store   *workforce.Store
	service auth.Service
}

func setupAuthServiceTest(t *testing.T, users ...domain.User) *authServiceDeps {
	t.Helper()
	store, _ := workforcetest.Open(t)
	if len(users) > 0 {
		workforcetest.Seed(t, store, users, nil, nil)
	}
	svc := auth.NewService(store, user.NewRepository(), password.NewHasher(bcrypt.MinCost))
	return &authServiceDeps{store: store, service: svc}
}

func validSignup() auth.SignupRequest {
	return auth.SignupRequest{
		CompanyName:     "Acme Corp",
		Name:            "Jane Doe",
		Email:           "jane@admin.com",
		Phone:           "9876543210",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	year := time.Now().Year()

	t.Run("first admin of a company", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		resp, err := deps.service.Signup(ctx, validSignup())
		require.NoError(t, err)

		u := resp.User
		assert.Equal(t, fmt.Sprintf("ACJADO%d0001", year), u.EmployeeID)
		assert.Equal(t, domain.RoleAdmin, u.Role)
		assert.Equal(t, "acme-corp", u.CompanyID)
		assert.Equal(t, domain.PresenceAbsent, u.Status)
		assert.False(t, u.IsFirstLogin)
		assert.Equal(t, "HR Manager", u.Designation)
		assert.Equal(t, "Human Resources", u.Department)
		assert.Equal(t, "Remote", u.Location)
		require.NotNil(t, u.Salary)
		assert.Equal(t, domain.Amount(25000), u.Salary.Basic)
		assert.Equal(t, domain.Amount(12500), u.Salary.HRA)
		assert.Equal(t, u.ID, resp.Session.UserID)

		cur, ok := deps.service.CurrentSession(ctx)
		require.True(t, ok)
		assert.Equal(t, u.ID, cur.UserID)

		stored := workforcetest.User(t, deps.store, u.ID)
		assert.True(t, password.IsHash(stored.Password))
	})

	t.Run("second signup in the same company gets next serial", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		_, err := deps.service.Signup(ctx, validSignup())
		require.NoError(t, err)

		req := validSignup()
		req.Name = "Jack"
		req.Email = "jack@employee.com"
		resp, err := deps.service.Signup(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ACJAUS%d0002", year), resp.User.EmployeeID)
		assert.Equal(t, domain.RoleEmployee, resp.User.Role)
		assert.Equal(t, "Software Engineer", resp.User.Designation)
	})

	t.Run("email is stored lowercased", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		req := validSignup()
		req.Email = "  Jane@ADMIN.com "

		resp, err := deps.service.Signup(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, resp.User.Role)
		assert.Equal(t, "jane@admin.com", workforcetest.User(t, deps.store, resp.User.ID).Email)
	})

	t.Run("validation order", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		_, err := deps.service.Signup(ctx, validSignup())
		require.NoError(t, err)

		cases := []struct {
			name   string
			mutate func(r *auth.SignupRequest)
			want   error
		}{
			{"company name", func(r *auth.SignupRequest) { r.CompanyName = " " }, autherrors.ErrCompanyNameRequired},
			{"duplicate before domain", func(r *auth.SignupRequest) { r.Phone = "1" }, autherrors.ErrDuplicateEmail},
			{"domain before phone", func(r *auth.SignupRequest) {
				r.Email = "x@gmail.com"
				r.Phone = "1"
			}, autherrors.ErrDomainInvalid},
			{"phone", func(r *auth.SignupRequest) {
				r.Email = "new@employee.com"
				r.Phone = "12345"
			}, autherrors.ErrPhoneInvalid},
			{"password mismatch", func(r *auth.SignupRequest) {
				r.Email = "new@employee.com"
				r.ConfirmPassword = "password2"
			}, autherrors.ErrPasswordMismatch},
			{"password too short", func(r *auth.SignupRequest) {
				r.Email = "new@employee.com"
				r.Password, r.ConfirmPassword = "short", "short"
			}, autherrors.ErrPasswordTooShort},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validSignup()
				tc.mutate(&req)
				_, err := deps.service.Signup(ctx, req)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hasher := password.NewHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("password1")
	require.NoError(t, err)

	admin := workforcetest.Admin("admin1")
	admin.Password = hashed
	legacy := workforcetest.Employee("emp1", admin.CompanyID)
	legacy.Password = "plainpass"
	noPassword := workforcetest.Employee("emp2", admin.CompanyID)
	badDomain := workforcetest.Employee("emp3", admin.CompanyID)
	badDomain.Email = "emp3@gmail.com"

	t.Run("by email and by employee id", func(t *testing.T) {
		deps := setupAuthServiceTest(t, admin)

		resp, err := deps.service.Login(ctx, auth.LoginRequest{Identifier: admin.Email, Password: "password1", CompanyID: "acme-corp"})
		require.NoError(t, err)
		assert.Equal(t, admin.ID, resp.Session.UserID)
		assert.Equal(t, domain.RoleAdmin, resp.Session.Role)

		_, err = deps.service.Login(ctx, auth.LoginRequest{Identifier: admin.EmployeeID, Password: "password1", CompanyID: "acme-corp"})
		require.NoError(t, err)

		cur, ok := deps.service.CurrentSession(ctx)
		require.True(t, ok)
		assert.Equal(t, admin.ID, cur.UserID)
	})

	t.Run("errors", func(t *testing.T) {
		deps := setupAuthServiceTest(t, admin, badDomain)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Identifier: "ghost@admin.com", CompanyID: "acme-corp"})
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)

		_, err = deps.service.Login(ctx, auth.LoginRequest{Identifier: badDomain.Email, CompanyID: "acme-corp"})
		assert.ErrorIs(t, err, autherrors.ErrDomainInvalid)

		_, err = deps.service.Login(ctx, auth.LoginRequest{Identifier: admin.Email, Password: "password1", CompanyID: "globex"})
		assert.ErrorIs(t, err, autherrors.ErrCompanyMismatch)

		_, err = deps.service.Login(ctx, auth.LoginRequest{Identifier: admin.Email, Password: "wrong", CompanyID: "acme-corp"})
		assert.ErrorIs(t, err, autherrors.ErrBadCredentials)

		_, ok := deps.service.CurrentSession(ctx)
		assert.False(t, ok)
	})

	t.Run("legacy plaintext is upgraded", func(t *testing.T) {
		deps := setupAuthServiceTest(t, legacy)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Identifier: legacy.Email, Password: "plainpass", CompanyID: "acme-corp"})
		require.NoError(t, err)

		stored := workforcetest.User(t, deps.store, legacy.ID)
		assert.True(t, password.IsHash(stored.Password))

		_, err = deps.service.Login(ctx, auth.LoginRequest{Identifier: legacy.Email, Password: "plainpass", CompanyID: "acme-corp"})
		assert.NoError(t, err)
	})

	t.Run("user without password signs in", func(t *testing.T) {
		deps := setupAuthServiceTest(t, noPassword)
		_, err := deps.service.Login(ctx, auth.LoginRequest{Identifier: noPassword.Email, Password: "anything", CompanyID: "acme-corp"})
		assert.NoError(t, err)
	})
}

func TestAuthService_ChangePasswordAndLogout(t *testing.T) {
	ctx := context.Background()
	emp := workforcetest.Employee("emp1", "acme-corp")
	emp.Password = "temp1234"
	emp.IsFirstLogin = true
	deps := setupAuthServiceTest(t, emp)

	resp, err := deps.service.Login(ctx, auth.LoginRequest{Identifier: emp.Email, Password: "temp1234", CompanyID: "acme-corp"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsFirstLogin)

	err = deps.service.ChangePassword(ctx, resp.Session, auth.ChangePasswordRequest{NewPassword: "short"})
	assert.ErrorIs(t, err, autherrors.ErrPasswordTooShort)

	err = deps.service.ChangePassword(ctx, domain.Session{}, auth.ChangePasswordRequest{NewPassword: "longenough"})
	assert.ErrorIs(t, err, autherrors.ErrNotSignedIn)

	require.NoError(t, deps.service.ChangePassword(ctx, resp.Session, auth.ChangePasswordRequest{NewPassword: "newpassword"}))

	me, err := deps.service.Me(ctx, resp.Session)
	require.NoError(t, err)
	assert.False(t, me.User.IsFirstLogin)

	cur, ok := deps.store.CurrentUser(ctx)
	require.True(t, ok)
	assert.False(t, cur.IsFirstLogin, "session copy reflects the change")

	_, err = deps.service.Login(ctx, auth.LoginRequest{Identifier: emp.Email, Password: "temp1234", CompanyID: "acme-corp"})
	assert.ErrorIs(t, err, autherrors.ErrBadCredentials)

	require.NoError(t, deps.service.Logout(ctx, resp.Session))
	_, ok = deps.service.CurrentSession(ctx)
	assert.False(t, ok)
}
