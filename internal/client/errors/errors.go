package clienterrors

import (
	"net/http"

	"go-careops/internal/shared/apperror"
)

var (
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"Client not found",
		http.StatusNotFound,
	)
	ErrInvalidClientID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid client id",
		http.StatusBadRequest,
	)
	ErrInvalidNoteCategory = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid note category",
		http.StatusBadRequest,
	)
	ErrClientInactive = apperror.New(
		apperror.CodeInvalidState,
		"Client is not active",
		http.StatusUnprocessableEntity,
	)
)
