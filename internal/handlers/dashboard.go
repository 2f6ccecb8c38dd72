// internal/handlers/dashboard.go
package handlers

import (
	"net/http"

	"creditpix-back/internal/imageproc"
	"creditpix-back/internal/session"

	"github.com/gin-gonic/gin"
)

// resetNotice is shown once after following a password-reset link.
const resetNotice = "You can now reset your password in your account settings"

// Dashboard is the post-login landing payload: profile, history and an
// optional informational notice driven by the reset=true query parameter.
func Dashboard(sessions *session.Service, images *imageproc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		user, err := sessions.Profile(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load profile"})
			return
		}

		resp := gin.H{
			"user":   user,
			"images": images.List(userID),
		}
		if c.Query("reset") == "true" {
			resp["notice"] = resetNotice
		}

		c.JSON(http.StatusOK, resp)
	}
}
