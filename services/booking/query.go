package booking

import (
	"context"
	"fmt"

	"providerhub/models"
	"providerhub/services/chat"
)

// ListVisible returns every booking in insertion order as adminID sees it.
// Bookings held by other admins are reduced to their id and a Closed
// status.
func (s *DefaultBookingStore) ListVisible(ctx context.Context, adminID string) ([]models.BookingView, error) {
	ctx, span := tracer.Start(ctx, "booking.ListVisible")
	defer span.End()

	bookings, err := s.Repo.List(ctx)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	views := make([]models.BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, viewFor(&bookings[i], adminID))
	}
	return views, nil
}

func (s *DefaultBookingStore) ChatAllowed(ctx context.Context, adminID, userID string) error {
	ctx, span := tracer.Start(ctx, "booking.ChatAllowed")
	defer span.End()

	bookings, err := s.Repo.List(ctx)
	if err != nil {
		fail(span, err)
		return fmt.Errorf("list bookings: %w", err)
	}
	for i := range bookings {
		b := &bookings[i]
		if b.UserID == userID && Actions(b, adminID).CanChat {
			return nil
		}
	}
	return newError(CodeUnauthorized, "no confirmed booking with user %s", userID)
}

func viewFor(b *models.Booking, adminID string) models.BookingView {
	if !visibleTo(b, adminID) {
		return models.BookingView{ID: b.ID, Status: models.StatusClosed}
	}
	view := models.BookingView{
		ID:      b.ID,
		Status:  DeriveStatus(b, adminID),
		Booking: b,
		Actions: Actions(b, adminID),
	}
	if view.Actions.CanChat {
		view.ChannelKey = chat.ChannelKey(b.UserID, adminID)
	}
	return view
}
