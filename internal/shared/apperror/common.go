package apperror

import "net/http"

// Errors shared by every workforce feature. Feature packages keep their own
// sentinels in their errors subpackage.
var (
	ErrUnauthorized    = New(CodeUnauthorized, "Sign in to continue", http.StatusUnauthorized)
	ErrForbidden       = New(CodeForbidden, "Your role does not allow this action", http.StatusForbidden)
	ErrTooManyRequests = New(CodeTooManyRequest, "Too many requests, try again shortly", http.StatusTooManyRequests)
	ErrInternal        = New(CodeInternalError, "Something went wrong on our side", http.StatusInternalServerError)
)
