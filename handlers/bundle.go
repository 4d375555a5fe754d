package handlers

import (
	"providerhub/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Resolver authenticates admins on protected routes.
	Resolver    middleware.AdminResolver
	IntakeToken string

	// Booking endpoints
	ListBookings   gin.HandlerFunc
	AssignBooking  gin.HandlerFunc
	ConfirmBooking gin.HandlerFunc
	CancelBooking  gin.HandlerFunc
	BookingEvents  gin.HandlerFunc
	IntakeBooking  gin.HandlerFunc

	// Chat endpoints
	SendMessage   gin.HandlerFunc
	GetHistory    gin.HandlerFunc
	StreamChannel gin.HandlerFunc

	// Admin endpoints
	EnrollAdmin gin.HandlerFunc
	GetMe       gin.HandlerFunc
	UpdateMe    gin.HandlerFunc
	UploadPhoto gin.HandlerFunc
	RemovePhoto gin.HandlerFunc

	// Location endpoints
	ReverseGeocode gin.HandlerFunc
	SearchLocation gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires each handler's methods into the bundle.
func NewHandlerBundle(resolver middleware.AdminResolver, intakeToken string, bh *BookingHandler, ch *ChatHandler, ah *AdminHandler, lh *LocationHandler) *HandlerBundle {
	return &HandlerBundle{
		Resolver:    resolver,
		IntakeToken: intakeToken,

		ListBookings:   bh.ListBookings,
		AssignBooking:  bh.AssignBooking,
		ConfirmBooking: bh.ConfirmBooking,
		CancelBooking:  bh.CancelBooking,
		BookingEvents:  bh.BookingEvents,
		IntakeBooking:  bh.IntakeBooking,

		SendMessage:   ch.SendMessage,
		GetHistory:    ch.GetHistory,
		StreamChannel: ch.StreamChannel,

		EnrollAdmin: ah.Enroll,
		GetMe:       ah.GetMe,
		UpdateMe:    ah.UpdateMe,
		UploadPhoto: ah.UploadPhoto,
		RemovePhoto: ah.RemovePhoto,

		ReverseGeocode: lh.Reverse,
		SearchLocation: lh.Search,

		Health: Health,
	}
}
