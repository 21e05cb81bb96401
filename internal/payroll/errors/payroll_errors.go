package payrollerrors

import (
	"net/http"

	"go-thread/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrPayrollForbidden = apperror.New(
		apperror.CodeForbidden,
		"You are not allowed to view this payroll",
		http.StatusForbidden,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
)
