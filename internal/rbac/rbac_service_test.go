package rbac_test

import (
	"testing"

	"go-thread/internal/domain"
	"go-thread/internal/rbac"
	"go-thread/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) rbac.Service {
	t.Helper()
	e, err := infra.NewEnforcer(rbac.DefaultPolicies())
	require.NoError(t, err)
	return rbac.NewService(e)
}

func TestService_Enforce(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		name     string
		role     domain.Role
		resource string
		action   string
		want     bool
	}{
		{"admin creates employees", domain.RoleAdmin, rbac.ResourceEmployee, rbac.ActionCreate, true},
		{"employee cannot create employees", domain.RoleEmployee, rbac.ResourceEmployee, rbac.ActionCreate, false},
		{"admin edits colleague salary", domain.RoleAdmin, rbac.ProfileResource(rbac.FieldGroupSalary), rbac.ActionOther, true},
		{"admin cannot edit own salary", domain.RoleAdmin, rbac.ProfileResource(rbac.FieldGroupSalary), rbac.ActionSelf, false},
		{"admin edits own work fields", domain.RoleAdmin, rbac.ProfileResource(rbac.FieldGroupWork), rbac.ActionSelf, true},
		{"employee edits own contact", domain.RoleEmployee, rbac.ProfileResource(rbac.FieldGroupContact), rbac.ActionSelf, true},
		{"employee cannot edit own work fields", domain.RoleEmployee, rbac.ProfileResource(rbac.FieldGroupWork), rbac.ActionSelf, false},
		{"employee cannot edit others", domain.RoleEmployee, rbac.ProfileResource(rbac.FieldGroupContact), rbac.ActionOther, false},
		{"employee reads own payroll", domain.RoleEmployee, rbac.ResourcePayroll, rbac.ActionSelf, true},
		{"admin cannot read own payroll", domain.RoleAdmin, rbac.ResourcePayroll, rbac.ActionSelf, false},
		{"admin decides leave", domain.RoleAdmin, rbac.ResourceLeave, rbac.ActionApprove, true},
		{"employee cannot decide leave", domain.RoleEmployee, rbac.ResourceLeave, rbac.ActionApprove, false},
		{"admin renames company", domain.RoleAdmin, rbac.ResourceCompany, rbac.ActionUpdate, true},
		{"employee cannot rename company", domain.RoleEmployee, rbac.ResourceCompany, rbac.ActionUpdate, false},
		{"unknown role", domain.Role(""), rbac.ResourceDashboard, rbac.ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.Enforce(domain.EnforceRequest{Role: tc.role, Resource: tc.resource, Action: tc.action})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestService_Permissions(t *testing.T) {
	svc := newService(t)

	perms, err := svc.Permissions(domain.RoleEmployee)
	require.NoError(t, err)
	assert.ElementsMatch(t, []rbac.PermissionResponse{
		{Resource: "profile.contact", Action: rbac.ActionSelf},
		{Resource: rbac.ResourcePayroll, Action: rbac.ActionSelf},
		{Resource: rbac.ResourceDashboard, Action: rbac.ActionRead},
	}, perms)
}

func TestTargetAction(t *testing.T) {
	assert.Equal(t, rbac.ActionSelf, rbac.TargetAction("u1", "u1"))
	assert.Equal(t, rbac.ActionOther, rbac.TargetAction("u1", "u2"))
}
