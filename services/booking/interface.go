package booking

import (
	"context"

	"providerhub/models"
)

// BookingStore owns booking records and their lifecycle transitions.
type BookingStore interface {
	Create(ctx context.Context, input models.NewBookingInput) (*models.Booking, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	Assign(ctx context.Context, bookingID, adminID string) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID, adminID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	ListVisible(ctx context.Context, adminID string) ([]models.BookingView, error)
	// ChatAllowed returns ErrUnauthorized unless adminID holds a booking with
	// userID that offers chat.
	ChatAllowed(ctx context.Context, adminID, userID string) error
}
