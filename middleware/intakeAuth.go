package middleware

import (
	"crypto/subtle"
	"net/http"

	"providerhub/utils"

	"github.com/gin-gonic/gin"
)

// IntakeAuthMiddleware admits the booking intake service, which presents a
// static service token. An empty configured token closes the route.
func IntakeAuthMiddleware(serviceToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "missingToken", "Missing or invalid Authorization header", "")
			return
		}
		if serviceToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(serviceToken)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, "invalidToken", "Unauthorized intake access", "")
			return
		}
		c.Set("intake", true)
		c.Next()
	}
}
