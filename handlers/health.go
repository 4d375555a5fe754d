package handlers

import (
	"net/http"

	"providerhub/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last dependency health snapshot.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "message": "Hi, I'm providerhub"})
}
