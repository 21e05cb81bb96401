package rbac

import "go-thread/internal/domain"

const (
	ResourceEmployee       = "employee"
	ResourcePayroll        = "payroll"
	ResourcePayrollSummary = "payroll.summary"
	ResourceDashboard      = "dashboard"
	ResourceLeave          = "leave"
	ResourceCompany        = "company"

	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionApprove = "approve"
	// ActionSelf and ActionOther qualify an action by whether the caller is
	// its own target.
	ActionSelf  = "self"
	ActionOther = "other"
)

// FieldGroup partitions the editable profile fields.
type FieldGroup string

const (
	FieldGroupContact FieldGroup = "contact"
	FieldGroupWork    FieldGroup = "work"
	FieldGroupSalary  FieldGroup = "salary"
)

// ProfileResource is the resource guarding edits to a field group.
func ProfileResource(g FieldGroup) string {
	return "profile." + string(g)
}

// TargetAction picks ActionSelf or ActionOther.
func TargetAction(actorID, targetID string) string {
	if actorID == targetID {
		return ActionSelf
	}
	return ActionOther
}

// DefaultPolicies encodes who may do what. Admins edit every field of their
// colleagues and all but their own salary; employees edit only their own
// contact details.
func DefaultPolicies() [][]string {
	admin := string(domain.RoleAdmin)
	employee := string(domain.RoleEmployee)
	return [][]string{
		{admin, ResourceEmployee, ActionCreate},
		{admin, "profile.*", ActionOther},
		{admin, ProfileResource(FieldGroupContact), ActionSelf},
		{admin, ProfileResource(FieldGroupWork), ActionSelf},
		{employee, ProfileResource(FieldGroupContact), ActionSelf},
		{admin, ResourcePayroll, ActionOther},
		{employee, ResourcePayroll, ActionSelf},
		{admin, ResourcePayrollSummary, ActionRead},
		{admin, ResourceDashboard, ActionRead},
		{admin, ResourceLeave, ActionApprove},
		{admin, ResourceCompany, ActionUpdate},
		{employee, ResourceDashboard, ActionRead},
	}
}
