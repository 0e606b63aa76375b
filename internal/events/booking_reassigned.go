package events

import "time"

const BookingReassignedTopic = "care.booking.reassigned.v1"

type BookingReassignedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	BookingID  string    `json:"booking_id"`
	BranchID   string    `json:"branch_id"`
	FromCarer  string    `json:"from_carer_id"`
	ToCarer    string    `json:"to_carer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
