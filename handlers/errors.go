package handlers

import (
	"errors"
	"net/http"

	"providerhub/services/booking"
	"providerhub/services/chat"
	"providerhub/services/geocode"
	"providerhub/services/identity"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP status and writes the
// standard error body.
func respondError(c *gin.Context, err error) {
	var bookingErr *booking.Error
	if errors.As(err, &bookingErr) {
		status := http.StatusInternalServerError
		switch bookingErr.Code {
		case booking.CodeNotFound:
			status = http.StatusNotFound
		case booking.CodeAlreadyAssigned, booking.CodeAlreadyCancelled, booking.CodeConflict:
			status = http.StatusConflict
		case booking.CodeUnauthorized:
			status = http.StatusForbidden
		case booking.CodeEmptyReason, booking.CodeInvalidBooking:
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, bookingErr.Code, bookingErr.Message, "")
		return
	}

	var verr *identity.ValidationError
	if errors.As(err, &verr) {
		utils.JSONError(c, http.StatusBadRequest, "invalidProfile", "Profile validation failed", verr.Error())
		return
	}

	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		utils.JSONError(c, http.StatusUnauthorized, "invalidToken", "Invalid or expired token", "")
	case errors.Is(err, identity.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "adminNotFound", "No admin is enrolled for this account", "")
	case errors.Is(err, identity.ErrPhotoStoreDisabled):
		utils.JSONError(c, http.StatusServiceUnavailable, "photoStoreDisabled", "Photo uploads are not available", "")
	case errors.Is(err, chat.ErrEmptyMessage):
		utils.JSONError(c, http.StatusBadRequest, "emptyMessage", "Message text is empty", "")
	case errors.Is(err, chat.ErrInvalidChannel):
		utils.JSONError(c, http.StatusBadRequest, "invalidChannel", "Channel and sender are required", "")
	case errors.Is(err, chat.ErrChannelUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "channelUnavailable", "Chat is temporarily unavailable", "")
	case errors.Is(err, geocode.ErrEmptyQuery):
		utils.JSONError(c, http.StatusBadRequest, "emptyQuery", "Search query is empty", "")
	case errors.Is(err, geocode.ErrAddressUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "addressUnavailable", "Address lookup is unavailable", "")
	default:
		getLogger(c).Error("unhandled service error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal", "Internal Server Error", "")
	}
}
