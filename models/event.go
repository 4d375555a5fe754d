package models

import "time"

const (
	EventBookingAssigned  = "booking.assigned"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// LifecycleEvent is emitted after every committed booking mutation.
type LifecycleEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	BookingID  string         `json:"bookingId"`
	UserID     string         `json:"userId"`
	AdminID    string         `json:"adminId,omitempty"`
	ActorID    string         `json:"actorId"`
	Reason     string         `json:"reason,omitempty"`
	State      LifecycleState `json:"state"`
	OccurredAt time.Time      `json:"occurredAt"`
}
