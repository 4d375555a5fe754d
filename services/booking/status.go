package booking

import "providerhub/models"

// DeriveStatus is the status viewerID sees for b. Cancellation dominates,
// then the viewer's own confirmation, then an open booking.
func DeriveStatus(b *models.Booking, viewerID string) models.BookingStatus {
	switch {
	case b.IsCancelled():
		return models.StatusCancelled
	case b.ConfirmBooking && b.AdminID == viewerID:
		return models.StatusConfirmed
	case !b.IsAssigned():
		return models.StatusPending
	default:
		return models.StatusClosed
	}
}

// Lifecycle returns the viewer independent state of b.
func Lifecycle(b *models.Booking) models.LifecycleState {
	switch {
	case b.IsCancelled():
		return models.StateCancelled
	case b.ConfirmBooking:
		return models.StateConfirmed
	case b.IsAssigned():
		return models.StateAssignedPending
	default:
		return models.StateUnassigned
	}
}

// Actions lists what viewerID may do with b.
func Actions(b *models.Booking, viewerID string) models.BookingActions {
	open := !b.IsCancelled() && !b.ConfirmBooking && !b.IsAssigned()
	mine := !b.IsCancelled() && b.ConfirmBooking && b.AdminID == viewerID
	return models.BookingActions{
		CanConfirm: open,
		CanCancel:  open,
		CanChat:    mine,
		CanCall:    mine,
	}
}

// visibleTo reports whether viewerID may see b in full.
func visibleTo(b *models.Booking, viewerID string) bool {
	return !b.IsAssigned() || b.AdminID == viewerID
}
