// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"creditpix-back/internal/models"
	"creditpix-back/internal/session"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

const authCookieMaxAge = 86400

func Register(svc *session.Service, cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, token, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, session.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}

		c.SetCookie("auth_token", token, authCookieMaxAge, "/", cookieDomain, false, true)
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: *user})
	}
}

func Login(svc *session.Service, cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		c.SetCookie("auth_token", token, authCookieMaxAge, "/", cookieDomain, false, true)
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: *user})
	}
}

func Logout(cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("auth_token", "", -1, "/", cookieDomain, false, true)
		c.Status(http.StatusOK)
	}
}

func GetProfile(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		user, err := svc.Profile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, session.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
