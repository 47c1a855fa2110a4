package models

import (
	"time"

	"github.com/google/uuid"
)

// Template represents a reusable, named message body with placeholder tokens.
// The (name, created_by) pair is unique per owner.
type Template struct {
	ID        string `json:"id"`      // UUID
	Name      string `json:"name"`    // Unique per owner
	Content   string `json:"content"` // Body text, may contain placeholder tokens
	CreatedBy string `json:"created_by"`
	LastSent  *int64 `json:"last_sent,omitempty"` // Unix timestamp, nil until first send
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// ContactTemplate links one Contact to one Template. A pair is linked at most
// once; repeated association attempts are reported, not duplicated.
type ContactTemplate struct {
	ContactID  string `json:"contact_id"`
	TemplateID string `json:"template_id"`
	CreatedAt  int64  `json:"created_at"`
}

// CreateTemplateRequest represents the request body for creating a template
type CreateTemplateRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

// UpdateTemplateRequest represents the request body for updating a template
type UpdateTemplateRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Content *string `json:"content,omitempty"`
}

// AssociateContactsRequest carries the raw recipient input for association and
// removal endpoints. Contacts accepts either a list or a single delimited string.
type AssociateContactsRequest struct {
	Contacts interface{} `json:"contacts" binding:"required"`
}

// NewTemplate creates a new Template with generated UUID and timestamps
func NewTemplate(name, content, createdBy string) *Template {
	now := time.Now().Unix()
	return &Template{
		ID:        uuid.New().String(),
		Name:      name,
		Content:   content,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
