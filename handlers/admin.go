package handlers

import (
	"net/http"

	"providerhub/middleware"
	"providerhub/models"
	"providerhub/services/identity"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxPhotoBytes = 5 << 20

// AdminHandler serves enrolment and the calling admin's own profile.
type AdminHandler struct {
	Gate     *identity.Gate
	Profiles *identity.ProfileService
}

func NewAdminHandler(gate *identity.Gate, profiles *identity.ProfileService) *AdminHandler {
	return &AdminHandler{Gate: gate, Profiles: profiles}
}

// Enroll creates the admin account on the first verified login.
func (h *AdminHandler) Enroll(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missingToken", "Missing or invalid Authorization header", "")
		return
	}
	admin, created, err := h.Gate.Enroll(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		getLogger(c).Info("new admin enrolled", zap.String("adminId", admin.ID))
	}
	c.JSON(status, admin)
}

func (h *AdminHandler) GetMe(c *gin.Context) {
	admin, err := h.Profiles.GetProfile(c.Request.Context(), adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) UpdateMe(c *gin.Context) {
	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Invalid profile payload", err.Error())
		return
	}
	admin, err := h.Profiles.UpdateProfile(c.Request.Context(), adminID(c), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// UploadPhoto accepts a multipart form with the image in the "photo" field.
func (h *AdminHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	fh, err := c.FormFile("photo")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "A photo file is required", err.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidRequest", "Could not read photo", err.Error())
		return
	}
	defer f.Close()

	admin, err := h.Profiles.UploadPhoto(c.Request.Context(), adminID(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) RemovePhoto(c *gin.Context) {
	admin, err := h.Profiles.RemovePhoto(c.Request.Context(), adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}
