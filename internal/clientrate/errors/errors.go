package clientrateerrors

import (
	"net/http"

	"go-careops/internal/shared/apperror"
)

var (
	ErrRateNotFound = apperror.New(
		apperror.CodeNotFound,
		"Client rate not found",
		http.StatusNotFound,
	)
	ErrNoRateForDate = apperror.New(
		apperror.CodeInvalidState,
		"No rate configured for the client on this date",
		http.StatusUnprocessableEntity,
	)
	ErrRateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A rate with this effective date already exists for the client",
		http.StatusConflict,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid effective_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
