package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"providerhub/models"
	"providerhub/services/geocode"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Geocoder resolves map points and search text to addresses.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (models.Address, error)
	Search(ctx context.Context, query string, limit int) ([]models.Address, error)
}

type LocationHandler struct {
	Geocoder Geocoder
}

func NewLocationHandler(g Geocoder) *LocationHandler {
	return &LocationHandler{Geocoder: g}
}

type reverseResponse struct {
	models.Address
	Resolved bool `json:"resolved"`
}

// Reverse answers with the coordinates even when no address was found, so
// the map picker can still save the point.
func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "lat and lng query parameters must be numbers", "")
		return
	}

	addr, err := h.Geocoder.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		if !errors.Is(err, geocode.ErrAddressUnavailable) {
			respondError(c, err)
			return
		}
		getLogger(c).Warn("reverse geocoding failed", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		c.JSON(http.StatusOK, reverseResponse{
			Address: models.Address{Address: geocode.AddressNotFound, Latitude: lat, Longitude: lng},
		})
		return
	}
	c.JSON(http.StatusOK, reverseResponse{Address: addr, Resolved: true})
}

func (h *LocationHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "limit must be a number", "")
			return
		}
		limit = n
	}
	results, err := h.Geocoder.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
