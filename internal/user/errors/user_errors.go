package usererrors

import (
	"net/http"

	"go-thread/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUnauthorized = apperror.New(
		apperror.CodeUnauthorized,
		"Unauthorized",
		http.StatusForbidden,
	)

	ErrEmployeeDomain = apperror.New(
		apperror.CodeDomainInvalid,
		"New employees must have an @employee.com domain.",
		http.StatusBadRequest,
	)

	ErrDuplicateEmail = apperror.New(
		apperror.CodeDuplicateEmail,
		"Employee email already registered",
		http.StatusConflict,
	)

	ErrPhoneInvalid = apperror.New(
		apperror.CodePhoneInvalid,
		"Phone number must contain exactly 10 digits.",
		http.StatusBadRequest,
	)

	ErrUpdateForbidden = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized update attempt.",
		http.StatusForbidden,
	)

	ErrOwnSalary = apperror.New(
		apperror.CodeForbidden,
		"Administrators cannot modify their own salary data.",
		http.StatusForbidden,
	)

	ErrFieldsForbidden = apperror.New(
		apperror.CodeForbidden,
		"You are not allowed to edit these fields.",
		http.StatusForbidden,
	)

	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Salary amounts must not be negative",
		http.StatusBadRequest,
	)

	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Year of joining is invalid",
		http.StatusBadRequest,
	)

	ErrEmptyUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"No fields to update",
		http.StatusBadRequest,
	)
)
