package companyerrors

import (
	"net/http"

	"go-thread/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrCompanyNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Company name is required",
		http.StatusBadRequest,
	)
)
