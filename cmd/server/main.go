package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bulletin-backend-go/internal/api"
	"bulletin-backend-go/internal/cache"
	"bulletin-backend-go/internal/config"
	"bulletin-backend-go/internal/core"
	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/identity"
	"bulletin-backend-go/internal/middleware"
	"bulletin-backend-go/internal/notify"
	"bulletin-backend-go/internal/upload"
	"bulletin-backend-go/internal/ws"
)

func main() {
	// --- 1. Load .env (local development convenience; real deployments set env vars) ---
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 3. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 4. Initialize Firebase Admin SDK (includes Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}

	// --- 5. Initialize Repositories ---
	postRepo := db.NewFirestorePostRepository(firestoreClient)
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	adminRepo := db.NewFirestoreAdminRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize External Clients ---
	identityClient := identity.NewClient(appConfig.FirebaseWebAPIKey)
	uploader := upload.NewClient(appConfig.CloudinaryCloudName, appConfig.CloudinaryUploadPreset)

	// Redis is optional; without it admin-membership checks always hit Firestore.
	var adminCache cache.Cache
	if appConfig.RedisAddr != "" {
		adminCache, err = cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       0,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err), zap.String("addr", appConfig.RedisAddr))
		}
		zapLogger.Info("Redis cache connected", zap.String("addr", appConfig.RedisAddr))
	} else {
		zapLogger.Warn("Redis cache disabled: REDIS_ADDR is not configured.")
	}

	// The mailer is optional as well; without it new submissions are not announced.
	var notifier core.Notifier
	if appConfig.SMTPHost != "" && appConfig.ModerationInbox != "" {
		mailer, err := notify.NewMailer(notify.NewMailerConfig{
			Host:      appConfig.SMTPHost,
			Port:      appConfig.SMTPPort,
			Username:  appConfig.SMTPUser,
			Password:  appConfig.SMTPPass,
			Sender:    appConfig.SMTPSender,
			Recipient: appConfig.ModerationInbox,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Invalid SMTP configuration", zap.Error(err))
		}
		notifier = mailer
		zapLogger.Info("Submission notifications enabled", zap.String("inbox", appConfig.ModerationInbox))
	} else {
		zapLogger.Warn("Submission notifications disabled: SMTP_HOST or MODERATION_INBOX not configured.")
	}

	// --- 7. Start WebSocket Hub ---
	hub := ws.NewHub()
	go hub.Run()
	zapLogger.Info("WebSocket hub started.")

	// --- 8. Initialize Core Services ---
	userService := core.NewUserService(userRepo)
	submissionService := core.NewSubmissionService(postRepo, uploader, notifier, zapLogger)
	moderationService := core.NewModerationService(postRepo, hub, zapLogger)
	feedService := core.NewFeedService(moderationService, postRepo)
	authService := core.NewAuthService(identityClient, firebaseAuthClient, userService, userRepo, adminRepo, adminCache, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// Start the snapshot listeners that keep the live queue views current.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	moderationService.Start(watchCtx)
	zapLogger.Info("Queue snapshot listeners started.")

	// --- 9. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 10. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 11. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		hub,
		submissionService,
		moderationService,
		feedService,
		authService,
		userService,
	)

	// --- 12. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 13. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Stop the snapshot listeners before closing the HTTP side.
	cancelWatch()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
