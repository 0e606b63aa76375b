package carererrors

import (
	"net/http"

	"go-careops/internal/shared/apperror"
)

var (
	ErrCarerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Carer not found",
		http.StatusNotFound,
	)
	ErrCarerAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A carer with this email already exists",
		http.StatusConflict,
	)
	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A carer with this staff number already exists",
		http.StatusConflict,
	)
	ErrCarerInactive = apperror.New(
		apperror.CodeInvalidState,
		"Carer is not active",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
