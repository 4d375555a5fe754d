package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"providerhub/models"
	"providerhub/services/identity"
	"providerhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminResolver turns a bearer token into the admin it belongs to.
type AdminResolver interface {
	ResolveAdmin(ctx context.Context, token string) (*models.Admin, error)
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// AdminAuthMiddleware resolves the calling admin and stores it under
// "admin" with its id under "adminID".
func AdminAuthMiddleware(resolver AdminResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "missingToken", "Missing or invalid Authorization header", "")
			return
		}

		admin, err := resolver.ResolveAdmin(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, identity.ErrUnauthorized):
			utils.JSONError(c, http.StatusUnauthorized, "invalidToken", "Invalid or expired token", "")
			return
		case errors.Is(err, identity.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "adminNotFound", "No admin is enrolled for this account", "")
			return
		default:
			utils.GetLogger().Error("admin resolution failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "internal", "Internal Server Error", "")
			return
		}

		c.Set("admin", admin)
		c.Set("adminID", admin.ID)
		c.Next()
	}
}
