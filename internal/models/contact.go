package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a phone-reachable person owned by one user.
// The (phone, created_by) pair is unique per owner; the same number may exist
// under different owners.
type Contact struct {
	ID        string `json:"id"`        // UUID
	FullName  string `json:"full_name"` // May be empty for contacts created implicitly during dispatch
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone" binding:"required"`
	Info      string `json:"info,omitempty"`
	CreatedBy string `json:"created_by"` // Owning user ID
	CreatedAt int64  `json:"created_at"` // Unix timestamp
	UpdatedAt int64  `json:"updated_at"` // Unix timestamp
}

// CreateContactRequest represents the request body for creating a contact
type CreateContactRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email,omitempty" binding:"omitempty,email,max=100"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Info     string `json:"info,omitempty"`
}

// UpdateContactRequest represents the request body for partially updating a contact
type UpdateContactRequest struct {
	FullName *string `json:"full_name,omitempty" binding:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=100"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Info     *string `json:"info,omitempty"`
}

// NewContact creates a new Contact with generated UUID and timestamps
func NewContact(phone, createdBy string) *Contact {
	now := time.Now().Unix()
	return &Contact{
		ID:        uuid.New().String(),
		Phone:     phone,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
