package autherrors

import (
	"net/http"

	"go-thread/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"Invalid credentials. User not found.",
		http.StatusNotFound,
	)

	ErrDomainInvalid = apperror.New(
		apperror.CodeDomainInvalid,
		"Invalid email domain. Please use your official company email (@admin.com or @employee.com).",
		http.StatusBadRequest,
	)

	ErrCompanyMismatch = apperror.New(
		apperror.CodeCompanyMismatch,
		"Selected company does not match user account.",
		http.StatusUnauthorized,
	)

	ErrBadCredentials = apperror.New(
		apperror.CodeBadCredentials,
		"Invalid credentials. Incorrect password.",
		http.StatusUnauthorized,
	)

	ErrDuplicateEmail = apperror.New(
		apperror.CodeDuplicateEmail,
		"Email already registered",
		http.StatusConflict,
	)

	ErrPhoneInvalid = apperror.New(
		apperror.CodePhoneInvalid,
		"Phone number must contain exactly 10 digits.",
		http.StatusBadRequest,
	)

	ErrCompanyNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Company name is required",
		http.StatusBadRequest,
	)

	ErrPasswordMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Passwords do not match",
		http.StatusBadRequest,
	)

	ErrPasswordTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Password must be at least 8 characters",
		http.StatusBadRequest,
	)

	ErrNotSignedIn = apperror.New(
		apperror.CodeUnauthorized,
		"You are not signed in",
		http.StatusUnauthorized,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Could not issue access token",
		http.StatusInternalServerError,
	)
)
