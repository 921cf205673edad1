package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bulletin-backend-go/internal/core"
	"bulletin-backend-go/internal/models"
)

// AuthHandler handles authentication and account related API endpoints.
type AuthHandler struct {
	authService core.AuthService
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as core.AuthService, us core.UserService) *AuthHandler {
	return &AuthHandler{authService: as, userService: us}
}

// Login handles POST /api/v1/auth/login. Error kinds are distinguished for
// the client: invalid credentials, provider rate limit, missing admin
// privileges, and everything else.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email and password are required", Details: err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		case errors.Is(err, core.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many failed login attempts. Please try again later."})
		case errors.Is(err, core.ErrNotAdmin):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied. Not authorized as admin."})
		default:
			log.Printf("Login Error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrentUser handles GET /api/v1/users/me.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	user, err := h.userService.GetByUID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		log.Printf("GetCurrentUser Error: userService.GetByUID failed for %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user profile", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles POST /api/v1/users/me/password. The session's
// refresh tokens are revoked on success, so the client must sign in again.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "New password is required", Details: err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), uid, req.NewPassword); err != nil {
		log.Printf("ChangePassword Error for %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update password", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password updated. Please log in again."})
}
