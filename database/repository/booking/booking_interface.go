package bookingRepo

import (
	"context"
	"errors"

	"providerhub/models"
)

var (
	// ErrNotFound is returned when no booking has the requested id.
	ErrNotFound = errors.New("booking not found")
	// ErrVersionConflict is returned when a conditional replace lost a race.
	ErrVersionConflict = errors.New("booking version conflict")
	// ErrDuplicateID is returned when inserting an id that already exists.
	ErrDuplicateID = errors.New("booking id already exists")
)

// BookingRepository defines persistence for bookings. Bookings are never
// deleted; every change goes through ReplaceIfVersion.
type BookingRepository interface {
	// Insert stores a new booking and sets b.Seq to its insertion sequence.
	Insert(ctx context.Context, b *models.Booking) error
	// GetByID returns the booking or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// List returns every booking in insertion order.
	List(ctx context.Context) ([]models.Booking, error)
	// ReplaceIfVersion stores b only if the stored version still equals
	// expectedVersion. b.Version must already hold the new version.
	ReplaceIfVersion(ctx context.Context, b *models.Booking, expectedVersion int64) error
}
