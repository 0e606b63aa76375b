package booking

type CreateBookingRequest struct {
	ClientID    string `json:"client_id" binding:"required,uuid"`
	CarerID     string `json:"carer_id" binding:"required,uuid"`
	StartAt     string `json:"start_at" binding:"required"`
	EndAt       string `json:"end_at" binding:"required"`
	ServiceName string `json:"service_name"`
	Notes       string `json:"notes"`
}

type UpdateBookingRequest struct {
	ClientID    string `json:"client_id" binding:"required,uuid"`
	CarerID     string `json:"carer_id" binding:"required,uuid"`
	StartAt     string `json:"start_at" binding:"required"`
	EndAt       string `json:"end_at" binding:"required"`
	ServiceName string `json:"service_name"`
	Notes       string `json:"notes"`
}

type ReassignBookingRequest struct {
	ToCarerID string `json:"to_carer_id" binding:"required,uuid"`
	Note      string `json:"note"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BookingResponse struct {
	ID                 string `json:"id"`
	BranchID           string `json:"branch_id"`
	ClientID           string `json:"client_id"`
	ClientName         string `json:"client_name,omitempty"`
	CarerID            string `json:"carer_id"`
	StartAt            string `json:"start_at"`
	EndAt              string `json:"end_at"`
	ServiceName        string `json:"service_name,omitempty"`
	Status             string `json:"status"`
	Notes              string `json:"notes,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancelledAt        string `json:"cancelled_at,omitempty"`
}

// AffectedBooking is the read view the leave editor renders. It is derived
// from Booking rows overlapping a leave window, never stored.
type AffectedBooking struct {
	ID          string `json:"id"`
	CarerID     string `json:"carer_id"`
	ClientName  string `json:"client_name"`
	DisplayDate string `json:"display_date"`
	DisplayTime string `json:"display_time"`
	ServiceName string `json:"service_name,omitempty"`
	Status      string `json:"status"`
}

type ConflictCheckResult struct {
	AffectedBookings []AffectedBooking `json:"affected_bookings"`
	Total            int               `json:"total"`
}
