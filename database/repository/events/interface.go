package eventRepo

import (
	"context"

	"providerhub/models"
)

// EventRepository is the audit trail of booking lifecycle events.
type EventRepository interface {
	// Append stores event once; appending the same event id again is a no-op.
	Append(ctx context.Context, event models.LifecycleEvent) error
	// ListByBooking returns a booking's events oldest first.
	ListByBooking(ctx context.Context, bookingID string) ([]models.LifecycleEvent, error)
}
