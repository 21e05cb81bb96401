package domain

// EnforceRequest asks whether a role may perform action on resource.
type EnforceRequest struct {
	Role     Role
	Resource string
	Action   string
}
