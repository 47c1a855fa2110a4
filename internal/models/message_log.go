package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusPending is the delivery status a recipient log carries until the
// gateway reports otherwise.
const StatusPending = "PENDING"

// MessageLog is the immutable record of a single dispatch attempt. Rows are
// never updated; a resend creates a new MessageLog.
type MessageLog struct {
	ID       string `json:"id"`      // UUID
	Content  string `json:"content"` // Body actually sent, post-personalization
	AuthorID string `json:"author_id"`
	SentAt   int64  `json:"sent_at"` // Unix timestamp, set once at creation
}

// RecipientLog records the delivery outcome for one recipient of one
// MessageLog. ContactID is cleared if the contact is later deleted; the row
// itself survives.
type RecipientLog struct {
	ID        int64   `json:"id"`
	ContactID *string `json:"contact_id"` // nil once the contact is deleted
	MessageID string  `json:"message_id"`
	Status    string  `json:"status"`
}

// SendMessageRequest represents the request body for an ad hoc send.
// To accepts either a list of identifiers or a single delimited string.
type SendMessageRequest struct {
	Message string      `json:"message" binding:"required"`
	To      interface{} `json:"to" binding:"required"`
}

// ResendMessageRequest represents the request body for resending a logged
// message, optionally with replacement content.
type ResendMessageRequest struct {
	Content string `json:"content,omitempty"`
}

// NewMessageLog creates a new MessageLog with generated UUID and sent timestamp
func NewMessageLog(content, authorID string) *MessageLog {
	return &MessageLog{
		ID:       uuid.New().String(),
		Content:  content,
		AuthorID: authorID,
		SentAt:   time.Now().Unix(),
	}
}
