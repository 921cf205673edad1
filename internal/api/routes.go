package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bulletin-backend-go/internal/config"
	"bulletin-backend-go/internal/core"
	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/middleware"
	"bulletin-backend-go/internal/ws"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (Logging, Recovery, CORS) are applied to the `router` instance
// *before* this function is called, typically in `main.go`.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	hub *ws.Hub,
	submissionService core.SubmissionService,
	moderationService core.ModerationService,
	feedService core.FeedService,
	authService core.AuthService,
	userService core.UserService,
) {
	// --- Initialize Middleware requiring dependencies ---
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirestore() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, authService)

	// Anonymous writes get a tighter budget than reads: one submission or login
	// attempt per second per IP, with a small burst for page reloads.
	submitLimiter := middleware.NewIPRateLimiter(rate.Limit(1), 5)
	submitLimiter.StartCleanup(10 * time.Minute)
	loginLimiter := middleware.NewIPRateLimiter(rate.Limit(1), 5)
	loginLimiter.StartCleanup(10 * time.Minute)

	// --- Initialize Handlers ---
	submissionHandler := NewSubmissionHandler(submissionService)
	moderationHandler := NewModerationHandler(moderationService)
	feedHandler := NewFeedHandler(feedService)
	authHandler := NewAuthHandler(authService, userService)

	// --- Define API Route Groups ---
	apiV1 := router.Group("/api/v1")
	{
		// --- Authentication Endpoints ---
		authGroup := apiV1.Group("/auth")
		{
			// POST /api/v1/auth/login - Public. Credential checks are throttled per IP.
			authGroup.POST("/login", middleware.RateLimitMiddleware(loginLimiter), authHandler.Login)
		}

		// --- User Endpoints ---
		usersGroup := apiV1.Group("/users")
		{
			// GET /api/v1/users/me - Requires auth to get the current user's profile.
			usersGroup.GET("/me", authMW.VerifyToken(), authHandler.GetCurrentUser)

			// POST /api/v1/users/me/password - Admins only; a changed password
			// revokes existing sessions, handled by the service.
			usersGroup.POST("/me/password", authMW.VerifyToken(), authMW.RequireAdmin(), authHandler.ChangePassword)
		}

		// --- Public Post Endpoints ---
		postsGroup := apiV1.Group("/posts")
		{
			// GET /api/v1/posts - Public approved feed with search/category/priority filters.
			postsGroup.GET("", feedHandler.ListPosts)

			// POST /api/v1/posts - Public submission into the pending queue.
			postsGroup.POST("", middleware.RateLimitMiddleware(submitLimiter), submissionHandler.SubmitPost)

			// DELETE /api/v1/posts/:postId - Removes an approved post. Admins only.
			postsGroup.DELETE("/:postId", authMW.VerifyToken(), authMW.RequireAdmin(), feedHandler.DeletePost)
		}

		// --- Moderation Endpoints ---
		// Every route in this group requires a verified token, admin membership,
		// and that the token's UID matches the :adminId in the path.
		adminGroup := apiV1.Group("/admin/:adminId", authMW.VerifyToken(), authMW.RequireAdmin(), authMW.RequireRouteOwner("adminId"))
		{
			adminGroup.GET("/pending", moderationHandler.ListPending)
			adminGroup.GET("/approved", moderationHandler.ListApproved)
			adminGroup.GET("/stats", moderationHandler.Stats)
			adminGroup.POST("/pending/:postId/approve", moderationHandler.ApprovePost)
			adminGroup.POST("/pending/:postId/reject", moderationHandler.RejectPost)
		}
	}

	// --- Live Update Stream ---
	// The hub pushes pending/approved queue snapshots to every connected client.
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, c.Writer, c.Request)
	})

	// --- General Health Check Endpoint ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Bulletin backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1, /ws and /health.")
}
