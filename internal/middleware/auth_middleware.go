package middleware

import (
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"bulletin-backend-go/internal/core"
)

// ErrorResponse is a local definition for sending standardized error messages.
// It mirrors the one in internal/api/dto_models.go to avoid import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides Gin middleware for Firebase token authentication and
// the server-side admin gate.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	authService        core.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
// It panics if either dependency is nil, as these are critical setup dependencies.
func NewAuthMiddleware(fbAuthClient *auth.Client, authService core.AuthService) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	if authService == nil {
		panic("AuthService is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{firebaseAuthClient: fbAuthClient, authService: authService}
}

// VerifyToken verifies a Firebase ID token from the Authorization header and,
// when valid, sets user information in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}
		idToken := parts[1]

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			log.Printf("AuthMiddleware: Error verifying Firebase ID token: %v", err)
			// Generic message to the client; details stay server-side.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set("userID", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set("userDisplayName", name)
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			c.Set("userPhotoURL", picture)
		}

		c.Next()
	}
}

// RequireAdmin rejects authenticated users who are not members of the admins
// set. Must run after VerifyToken. The membership check is re-done on every
// privileged call; client-cached state is never trusted.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("userID")
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
			return
		}

		isAdmin, err := m.authService.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			log.Printf("AuthMiddleware: Error checking admin membership for %s: %v", uid, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify admin status"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
			return
		}

		c.Next()
	}
}

// RequireRouteOwner compares the verified token UID against the named route
// parameter. Admin dashboard routes are keyed by admin ID; a mismatch means a
// link for somebody else and is rejected.
func (m *AuthMiddleware) RequireRouteOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("userID")
		routeID := c.Param(param)
		if uid == "" || routeID == "" || uid != routeID {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Route does not belong to the authenticated admin"})
			return
		}
		c.Next()
	}
}
