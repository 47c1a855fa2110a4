package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that owns contacts, templates and message logs
type User struct {
	ID           string  `json:"id"`       // UUID
	Username     string  `json:"username"` // Unique username
	Email        string  `json:"email"`    // Unique email
	PasswordHash string  `json:"-"`        // EXCLUDED from JSON - bcrypt hash
	TOTPSecret   *string `json:"-"`        // EXCLUDED from JSON - encrypted TOTP secret
	TOTPEnabled  bool    `json:"totp_enabled"`
	Active       bool    `json:"active"`
	LastLogin    *int64  `json:"last_login,omitempty"` // Unix timestamp of last successful login
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

// RegisterRequest represents the request body for creating a new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"` // Plain password - will be hashed
}

// LoginRequest represents the request body for authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"` // Required only when 2FA is enabled
}

// UserResponse is a safe user representation for API responses, excluding all
// sensitive fields
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	TOTPEnabled bool   `json:"totp_enabled"`
	LastLogin   *int64 `json:"last_login,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// NewUser creates a new User with generated UUID and timestamps.
// The password should already be hashed before calling this function.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ToResponse converts User to UserResponse, excluding all sensitive fields
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Active:      u.Active,
		TOTPEnabled: u.TOTPEnabled,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}
