package handlers

import (
	"net/http"

	eventRepo "providerhub/database/repository/events"
	"providerhub/models"
	"providerhub/services/booking"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the admin booking list and its lifecycle actions.
type BookingHandler struct {
	Store  booking.BookingStore
	Events eventRepo.EventRepository
}

func NewBookingHandler(store booking.BookingStore, events eventRepo.EventRepository) *BookingHandler {
	return &BookingHandler{Store: store, Events: events}
}

type bookingResponse struct {
	Booking *models.Booking      `json:"booking"`
	Status  models.BookingStatus `json:"status"`
}

func respondBooking(c *gin.Context, b *models.Booking) {
	c.JSON(http.StatusOK, bookingResponse{Booking: b, Status: booking.DeriveStatus(b, adminID(c))})
}

// ListBookings returns every booking as the calling admin sees it.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	views, err := h.Store.ListVisible(c.Request.Context(), adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": views})
}

func (h *BookingHandler) AssignBooking(c *gin.Context) {
	b, err := h.Store.Assign(c.Request.Context(), c.Param("id"), adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondBooking(c, b)
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	b, err := h.Store.Confirm(c.Request.Context(), c.Param("id"), adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondBooking(c, b)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Invalid request body", err.Error())
		return
	}
	b, err := h.Store.Cancel(c.Request.Context(), c.Param("id"), adminID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("booking cancelled", zap.String("bookingId", b.ID), zap.String("adminId", adminID(c)))
	respondBooking(c, b)
}

// BookingEvents returns the audit trail of a booking the caller can see.
func (h *BookingHandler) BookingEvents(c *gin.Context) {
	b, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if b.IsAssigned() && b.AdminID != adminID(c) {
		respondError(c, booking.ErrUnauthorized)
		return
	}
	events, err := h.Events.ListByBooking(c.Request.Context(), b.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// IntakeBooking records a booking submitted by the booking intake service.
func (h *BookingHandler) IntakeBooking(c *gin.Context) {
	var input models.NewBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Invalid booking payload", err.Error())
		return
	}
	b, err := h.Store.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("booking received", zap.String("bookingId", b.ID), zap.String("userId", b.UserID))
	c.JSON(http.StatusCreated, b)
}
