package attendanceerrors

import (
	"net/http"

	"go-thread/internal/shared/apperror"
)

var (
	ErrNotSignedIn = apperror.New(
		apperror.CodeUnauthorized,
		"Sign in to record attendance",
		http.StatusUnauthorized,
	)

	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)

	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Already checked in for this date",
		http.StatusConflict,
	)

	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"Already checked out",
		http.StatusConflict,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be PRESENT, LEAVE or ABSENT",
		http.StatusBadRequest,
	)

	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)

	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Time must use the hh:mm AM/PM format",
		http.StatusBadRequest,
	)

	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"Hours must not be negative",
		http.StatusBadRequest,
	)
)
