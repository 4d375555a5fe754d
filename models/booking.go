package models

import "time"

// Booking is a work request created by an end-user and matched to at most
// one admin. CancelledBy is append-only; once non-empty the booking is
// terminal.
type Booking struct {
	ID             string               `bson:"id" json:"_id"`
	UserID         string               `bson:"userId" json:"userId"`
	AdminID        string               `bson:"adminId,omitempty" json:"adminId"`
	BookingDetails BookingDetails       `bson:"bookingDetails" json:"bookingDetails"`
	Payment        Payment              `bson:"payment" json:"payment"`
	ConfirmBooking bool                 `bson:"confirmBooking" json:"confirmBooking"`
	CancelledBy    []CancellationRecord `bson:"cancelledBy" json:"cancelledBy"`
	Version        int64                `bson:"version" json:"version"`
	// Seq is assigned by the repository on insert and orders the booking list.
	Seq            int64                `bson:"seq" json:"-"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type BookingDetails struct {
	ServiceName string `bson:"serviceName" json:"serviceName"`
	DateBooked  string `bson:"dateBooked" json:"dateBooked"`
	TimeSlot    string `bson:"timeSlot" json:"timeSlot"`
}

type Payment struct {
	Amount float64 `bson:"amount" json:"amount"`
}

// CancellationRecord notes who cancelled a booking and why.
type CancellationRecord struct {
	ActorID   string    `bson:"actorId" json:"actorId"`
	Reason    string    `bson:"reason" json:"reason"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// IsAssigned reports whether an admin has taken the booking.
func (b *Booking) IsAssigned() bool {
	return b.AdminID != ""
}

// IsCancelled reports whether at least one cancellation was recorded.
func (b *Booking) IsCancelled() bool {
	return len(b.CancelledBy) > 0
}

// Clone returns a deep copy so callers can mutate without aliasing the
// cancellation slice.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.CancelledBy != nil {
		c.CancelledBy = make([]CancellationRecord, len(b.CancelledBy))
		copy(c.CancelledBy, b.CancelledBy)
	}
	return &c
}

// BookingStatus is the status shown to a particular admin.
type BookingStatus string

const (
	StatusCancelled BookingStatus = "Cancelled"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusPending   BookingStatus = "Pending"
	StatusClosed    BookingStatus = "Closed"
)

// LifecycleState is the viewer independent state of a booking.
type LifecycleState string

const (
	StateUnassigned      LifecycleState = "Unassigned"
	StateAssignedPending LifecycleState = "AssignedPending"
	StateConfirmed       LifecycleState = "Confirmed"
	StateCancelled       LifecycleState = "Cancelled"
)

// BookingView is one row of an admin's booking list. Bookings owned by
// another admin carry only ID and a Closed status.
type BookingView struct {
	ID         string         `json:"_id"`
	Status     BookingStatus  `json:"status"`
	Booking    *Booking       `json:"booking,omitempty"`
	Actions    BookingActions `json:"actions"`
	ChannelKey string         `json:"channelKey,omitempty"`
}

// BookingActions lists what the viewing admin may do with a booking.
type BookingActions struct {
	CanConfirm bool `json:"canConfirm"`
	CanCancel  bool `json:"canCancel"`
	CanChat    bool `json:"canChat"`
	CanCall    bool `json:"canCall"`
}

// NewBookingInput is what the intake collaborator submits.
type NewBookingInput struct {
	UserID         string         `json:"userId" binding:"required"`
	BookingDetails BookingDetails `json:"bookingDetails" binding:"required"`
	Payment        Payment        `json:"payment"`
}
