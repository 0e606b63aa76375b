package bookingerrors

import (
	"net/http"

	"go-careops/internal/shared/apperror"
)

var (
	ErrBookingNotFound = apperror.New(
		apperror.CodeNotFound,
		"Booking not found",
		http.StatusNotFound,
	)
	ErrBookingAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"Booking is already cancelled",
		http.StatusUnprocessableEntity,
	)
	ErrCancellationReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Cancellation reason must not be empty",
		http.StatusBadRequest,
	)
	ErrReassignToSameCarer = apperror.New(
		apperror.CodeInvalidInput,
		"Replacement carer must differ from the current carer",
		http.StatusBadRequest,
	)
	ErrReassignTargetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Replacement carer not found",
		http.StatusNotFound,
	)
	ErrReassignTargetInactive = apperror.New(
		apperror.CodeInvalidState,
		"Replacement carer is not active",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"Booking end time must be after start time",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date range, expected YYYY-MM-DD with start on or before end",
		http.StatusBadRequest,
	)
)
