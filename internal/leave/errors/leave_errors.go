package leaveerrors

import (
	"net/http"

	"go-careops/internal/shared/apperror"
)

var (
	ErrInvalidBranchID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid branch id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidCarerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid carer id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrCarerNotInBranch = apperror.New(
		apperror.CodeInvalidInput,
		"carer does not belong to this branch",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrApprovedByRequired = apperror.New(
		apperror.CodeInvalidInput,
		"approved_by is required when status is APPROVED",
		http.StatusBadRequest,
	)
	ErrInvalidApprovedBy = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approved_by",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when status is REJECTED",
		http.StatusBadRequest,
	)

	// Edit session errors.
	ErrEditSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"no open edit session for this leave request",
		http.StatusNotFound,
	)
	ErrEditSessionExists = apperror.New(
		apperror.CodeConflict,
		"an edit session is already open for this leave request",
		http.StatusConflict,
	)
	ErrEditSessionSaving = apperror.New(
		apperror.CodeInvalidState,
		"a save is already in progress for this edit session",
		http.StatusConflict,
	)
	ErrConflictsUnresolved = apperror.New(
		apperror.CodeInvalidState,
		"unresolved booking conflicts block this save",
		http.StatusUnprocessableEntity,
	)
	ErrConflictsUnknown = apperror.New(
		apperror.CodeInvalidState,
		"conflict check has not completed successfully; save is blocked",
		http.StatusUnprocessableEntity,
	)
	ErrBookingNotInConflictSet = apperror.New(
		apperror.CodeInvalidInput,
		"booking is not part of the current conflict set",
		http.StatusBadRequest,
	)
	ErrReassignToLeaveCarer = apperror.New(
		apperror.CodeInvalidInput,
		"cannot reassign a booking to the carer going on leave",
		http.StatusBadRequest,
	)
)
