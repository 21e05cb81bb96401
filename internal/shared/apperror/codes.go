package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInvalidState   = "INVALID_STATE"
	CodeTooManyRequest = "TOO_MANY_REQUESTS"

	// Workforce rule violations
	CodeDomainInvalid   = "DOMAIN_INVALID"
	CodeCompanyMismatch = "COMPANY_MISMATCH"
	CodeBadCredentials  = "BAD_CREDENTIALS"
	CodePhoneInvalid    = "PHONE_INVALID"
	CodeDuplicateEmail  = "DUPLICATE_EMAIL"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
