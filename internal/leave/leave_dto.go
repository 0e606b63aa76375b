package leave

import "go-careops/internal/booking"

type CreateLeaveRequest struct {
	CarerID   string `json:"carer_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY PATERNITY EMERGENCY"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type UpdateLeaveStatusRequest struct {
	Status          string  `json:"status" binding:"required,oneof=PENDING SUBMITTED APPROVED REJECTED CANCELLED"`
	ApprovedBy      *string `json:"approved_by"`
	RejectionReason *string `json:"rejection_reason"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	BranchID        string  `json:"branch_id"`
	CarerID         string  `json:"carer_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type SetDatesRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type ReassignConflictRequest struct {
	ToCarerID string `json:"to_carer_id" binding:"required,uuid"`
	Note      string `json:"note"`
}

type CancelConflictRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type SaveEditRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY PATERNITY EMERGENCY"`
	Reason    string `json:"reason"`
}

// EditSessionResponse is the full editor state returned after every session
// operation so the caller never has to derive the save gate itself.
type EditSessionResponse struct {
	LeaveID          string                    `json:"leave_id"`
	CarerID          string                    `json:"carer_id"`
	State            string                    `json:"state"`
	StartDate        string                    `json:"start_date"`
	EndDate          string                    `json:"end_date"`
	ConflictsKnown   bool                      `json:"conflicts_known"`
	AffectedBookings []booking.AffectedBooking `json:"affected_bookings"`
	ResolvedIDs      []string                  `json:"resolved_ids"`
	UnresolvedCount  int                       `json:"unresolved_count"`
	CanSave          bool                      `json:"can_save"`
}
