package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juliusmarkwei/swift-send/internal/config"
	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/internal/services"
	"github.com/juliusmarkwei/swift-send/pkg/logger"
	"github.com/juliusmarkwei/swift-send/pkg/middleware"
)

// TOTPRequest carries a one-time code for the 2FA endpoints
type TOTPRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthHandler handles registration and authentication requests
type AuthHandler struct {
	accounts AccountServiceInterface
	config   *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts AccountServiceInterface, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		config:   cfg,
	}
}

// Register handles creating a new account (POST /api/auth/register)
func (h *AuthHandler) Register(c *gin.Context) {
	logger.Info("Register endpoint called")

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.accounts.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUsername),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			respondServiceError(c, err)
		}
		return
	}

	logger.Info("Account created", zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, user.ToResponse())
}

// Login handles authentication and returns a JWT token (POST /api/auth/login)
func (h *AuthHandler) Login(c *gin.Context) {
	logger.Info("Login endpoint called")

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.accounts.Authenticate(req.Username, req.Password, req.TOTPCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrInvalidTOTP) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondServiceError(c, err)
		return
	}

	tokenString, err := middleware.GenerateToken(user.ID, h.config)
	if err != nil {
		logger.Error("Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user.ToResponse(),
	})
}

// Me returns the authenticated account (GET /api/auth/me)
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.GetUser(currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// SetupTOTP generates a fresh TOTP secret (POST /api/auth/totp/setup)
func (h *AuthHandler) SetupTOTP(c *gin.Context) {
	logger.Info("TOTP setup endpoint called")

	secret, err := h.accounts.GenerateTOTPSecret(currentUserID(c))
	if err != nil {
		logger.Error("Failed to generate TOTP secret", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret})
}

// EnableTOTP turns on 2FA after verifying a code (POST /api/auth/totp/enable)
func (h *AuthHandler) EnableTOTP(c *gin.Context) {
	logger.Info("TOTP enable endpoint called")

	var req TOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.accounts.EnableTOTP(currentUserID(c), req.Code); err != nil {
		if errors.Is(err, services.ErrInvalidTOTP) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid TOTP code"})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled"})
}

// DisableTOTP turns off 2FA (POST /api/auth/totp/disable)
func (h *AuthHandler) DisableTOTP(c *gin.Context) {
	logger.Info("TOTP disable endpoint called")

	if err := h.accounts.DisableTOTP(currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}
