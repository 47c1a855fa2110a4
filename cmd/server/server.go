package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juliusmarkwei/swift-send/internal/config"
	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/gateway"
	"github.com/juliusmarkwei/swift-send/internal/handlers"
	"github.com/juliusmarkwei/swift-send/internal/services"
	"github.com/juliusmarkwei/swift-send/pkg/logger"
	"github.com/juliusmarkwei/swift-send/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

// maxRequestBody caps request bodies; message payloads are small
const maxRequestBody = 1 << 20

// SetupServer initializes and returns a configured HTTP server
func SetupServer(cfg *config.Config) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, errors.New("invalid server port")
	}

	// Initialize database
	database, err := db.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	userRepo := db.NewUserRepository(database.GetDB())
	contactRepo := db.NewContactRepository(database.GetDB())
	templateRepo := db.NewTemplateRepository(database.GetDB())
	logRepo := db.NewLogRepository(database.GetDB())

	// Initialize the SMS gateway client
	gatewayClient := gateway.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.Username,
		cfg.Gateway.APIKey,
		cfg.Gateway.SenderID,
		cfg.Gateway.Timeout,
	)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.Security.TOTPEncryptionKey)
	contactService := services.NewContactService(contactRepo)
	templateService := services.NewTemplateService(templateRepo, contactRepo)
	dispatchService := services.NewDispatchService(
		services.NewContactResolver(contactRepo),
		contactRepo,
		templateRepo,
		logRepo,
		gatewayClient,
	)

	// Initialize router
	router := gin.Default()

	setupRoutes(router, cfg, userService, contactService, templateService, dispatchService)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

// setupRoutes configures all the HTTP routes
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	userService *services.UserService,
	contactService *services.ContactService,
	templateService *services.TemplateService,
	dispatchService *services.DispatchService,
) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	contactHandler := handlers.NewContactHandler(contactService)
	templateHandler := handlers.NewTemplateHandler(templateService, dispatchService)
	messageHandler := handlers.NewMessageHandler(dispatchService)

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))
	router.Use(middleware.AuditLogMiddleware())

	// Basic health check endpoint (public)
	router.GET("/health", handleHealthCheck)

	// Auth endpoints (public)
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/totp/setup", authHandler.SetupTOTP)
	protected.POST("/auth/totp/enable", authHandler.EnableTOTP)
	protected.POST("/auth/totp/disable", authHandler.DisableTOTP)

	protected.POST("/contacts", contactHandler.CreateContact)
	protected.GET("/contacts", contactHandler.ListContacts)
	protected.GET("/contacts/:id", contactHandler.GetContact)
	protected.PATCH("/contacts/:id", contactHandler.UpdateContact)
	protected.DELETE("/contacts/:id", contactHandler.DeleteContact)

	protected.POST("/templates", templateHandler.CreateTemplate)
	protected.GET("/templates", templateHandler.ListTemplates)
	protected.GET("/templates/:id", templateHandler.GetTemplate)
	protected.PATCH("/templates/:id", templateHandler.UpdateTemplate)
	protected.DELETE("/templates/:id", templateHandler.DeleteTemplate)
	protected.GET("/templates/:id/contacts", templateHandler.ListTemplateContacts)
	protected.POST("/templates/:id/contacts", templateHandler.AssociateContacts)
	protected.DELETE("/templates/:id/contacts", templateHandler.DisassociateContacts)

	protected.GET("/messages", messageHandler.ListMessages)
	protected.GET("/messages/:id", messageHandler.GetMessage)

	// Dispatch endpoints carry the per-user send throttle
	throttled := protected.Group("")
	throttleClient := middleware.NewThrottleClient(
		cfg.Throttle.RedisAddr,
		cfg.Throttle.RedisPassword,
		cfg.Throttle.RedisDB,
	)
	throttled.Use(middleware.SendThrottleMiddleware(
		throttleClient,
		cfg.Throttle.MaxPerWindow,
		cfg.Throttle.Window,
	))

	throttled.POST("/messages/send", messageHandler.SendMessage)
	throttled.POST("/messages/:id/resend", messageHandler.ResendMessage)
	throttled.POST("/templates/:id/send", templateHandler.SendTemplate)
}

// handleHealthCheck handles the health check endpoint
func handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"version": version,
		"service": "swift-send",
	})
}

// StartServer starts the HTTP server and handles graceful shutdown
func StartServer(srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a timeout context for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
