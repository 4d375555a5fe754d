package handlers

import (
	"io"
	"net/http"

	"providerhub/services/booking"
	"providerhub/services/chat"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the channel between the calling admin and a user.
// The channel opens once the admin holds a confirmed booking with the user.
type ChatHandler struct {
	Manager  *chat.Manager
	Bookings booking.BookingStore
}

func NewChatHandler(m *chat.Manager, bookings booking.BookingStore) *ChatHandler {
	return &ChatHandler{Manager: m, Bookings: bookings}
}

func channelFor(c *gin.Context) string {
	return chat.ChannelKey(c.Param("userId"), adminID(c))
}

// allowed writes the error response and returns false when the caller may
// not chat with the user in the path.
func (h *ChatHandler) allowed(c *gin.Context) bool {
	if err := h.Bookings.ChatAllowed(c.Request.Context(), adminID(c), c.Param("userId")); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Invalid request body", err.Error())
		return
	}
	if !h.allowed(c) {
		return
	}
	msg, err := h.Manager.Send(c.Request.Context(), channelFor(c), adminID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	if !h.allowed(c) {
		return
	}
	key := channelFor(c)
	msgs, err := h.Manager.History(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channelKey": key, "messages": msgs})
}

// StreamChannel pushes channel snapshots as server-sent events until the
// client goes away.
func (h *ChatHandler) StreamChannel(c *gin.Context) {
	if !h.allowed(c) {
		return
	}
	snaps, err := h.Manager.Subscribe(c.Request.Context(), channelFor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		snap, ok := <-snaps
		if !ok {
			return false
		}
		event := "snapshot"
		if snap.Unavailable {
			event = "unavailable"
		}
		c.SSEvent(event, snap)
		return true
	})
}
