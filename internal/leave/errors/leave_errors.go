package leaveerrors

import (
	"net/http"

	"go-thread/internal/shared/apperror"
)

var (
	ErrNotSignedIn = apperror.New(
		apperror.CodeUnauthorized,
		"Sign in to request time off",
		http.StatusUnauthorized,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Start date must be before or equal to end date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown leave type",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"Leave already exists in an overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Only pending requests can be approved or rejected",
		http.StatusConflict,
	)
)
