// internal/handlers/credits.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"creditpix-back/internal/billing"

	"github.com/gin-gonic/gin"
)

type PurchaseRequest struct {
	Credits int `json:"credits" binding:"required"`
}

func ListBundles() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, billing.Bundles)
	}
}

func PurchaseCredits(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		balance, err := svc.Purchase(c.Request.Context(), userID, req.Credits)
		if err != nil {
			if errors.Is(err, billing.ErrUnknownBundle) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown credit bundle"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to add credits"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Added %d credits to your account", req.Credits),
			"balance": balance,
		})
	}
}
