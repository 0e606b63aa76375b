package payrollerrors

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
	ErrInvalidDateTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid datetime format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrCarerNotInBranch = apperror.New(
		apperror.CodeInvalidInput,
		"carer does not belong to this branch",
		http.StatusBadRequest,
	)
	ErrPayrollOverlap = apperror.New(
		apperror.CodeConflict,
		"payroll already exists in overlapping period",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrInvalidApprovedBy = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approved_by",
		http.StatusBadRequest,
	)
	ErrPaidAtRequired = apperror.New(
		apperror.CodeInvalidInput,
		"paid_at is required when status is PAID",
		http.StatusBadRequest,
	)
	ErrNoRateAvailable = apperror.New(
		apperror.CodeInvalidState,
		"no hourly rate available for this carer",
		http.StatusUnprocessableEntity,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeInvalidState,
		"payslip has not been generated for this payroll",
		http.StatusUnprocessableEntity,
	)
)
