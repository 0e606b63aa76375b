package events

import "time"

const BookingCancelledTopic = "care.booking.cancelled.v1"

type BookingCancelledEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	BookingID  string    `json:"booking_id"`
	BranchID   string    `json:"branch_id"`
	ClientID   string    `json:"client_id"`
	CarerID    string    `json:"carer_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
