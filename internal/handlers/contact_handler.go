package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/pkg/logger"
)

// ContactHandler handles contact management requests
type ContactHandler struct {
	contacts ContactServiceInterface
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// CreateContact handles creating a new contact (POST /api/contacts)
func (h *ContactHandler) CreateContact(c *gin.Context) {
	logger.Info("Create contact endpoint called")

	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid create contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	contact, err := h.contacts.CreateContact(currentUserID(c), &req)
	if err != nil {
		logger.Error("Failed to create contact",
			zap.String("phone", req.Phone),
			zap.Error(err),
		)
		respondServiceError(c, err)
		return
	}

	logger.Info("Contact created", zap.String("contact_id", contact.ID))
	c.JSON(http.StatusCreated, contact)
}

// ListContacts handles listing the caller's contacts (GET /api/contacts)
func (h *ContactHandler) ListContacts(c *gin.Context) {
	contacts, err := h.contacts.ListContacts(currentUserID(c))
	if err != nil {
		logger.Error("Failed to list contacts", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// GetContact handles retrieving a contact by ID (GET /api/contacts/:id)
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contacts.GetContact(c.Param("id"), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateContact handles partially updating a contact (PATCH /api/contacts/:id)
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	logger.Info("Update contact endpoint called")

	var req models.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid update contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	contact, err := h.contacts.UpdateContact(c.Param("id"), currentUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Contact updated", zap.String("contact_id", contact.ID))
	c.JSON(http.StatusOK, contact)
}

// DeleteContact handles deleting a contact (DELETE /api/contacts/:id)
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	logger.Info("Delete contact endpoint called")

	if err := h.contacts.DeleteContact(c.Param("id"), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
