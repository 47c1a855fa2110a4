package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/pkg/logger"
)

// TemplateHandler handles template management and template dispatch requests
type TemplateHandler struct {
	templates TemplateServiceInterface
	dispatch  DispatchServiceInterface
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates TemplateServiceInterface, dispatch DispatchServiceInterface) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		dispatch:  dispatch,
	}
}

// CreateTemplate handles creating a new template (POST /api/templates)
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	logger.Info("Create template endpoint called")

	var req models.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid create template request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	template, err := h.templates.CreateTemplate(currentUserID(c), &req)
	if err != nil {
		logger.Error("Failed to create template",
			zap.String("name", req.Name),
			zap.Error(err),
		)
		respondServiceError(c, err)
		return
	}

	logger.Info("Template created", zap.String("template_id", template.ID))
	c.JSON(http.StatusCreated, template)
}

// ListTemplates handles listing the caller's templates (GET /api/templates)
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.ListTemplates(currentUserID(c))
	if err != nil {
		logger.Error("Failed to list templates", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"count":     len(templates),
	})
}

// GetTemplate handles retrieving a template by ID (GET /api/templates/:id)
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.templates.GetTemplate(c.Param("id"), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateTemplate handles partially updating a template (PATCH /api/templates/:id)
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	logger.Info("Update template endpoint called")

	var req models.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid update template request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	template, err := h.templates.UpdateTemplate(c.Param("id"), currentUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Template updated", zap.String("template_id", template.ID))
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate handles deleting a template and its contact links
// (DELETE /api/templates/:id)
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	logger.Info("Delete template endpoint called")

	if err := h.templates.DeleteTemplate(c.Param("id"), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// ListTemplateContacts handles listing a template's associated contacts
// (GET /api/templates/:id/contacts)
func (h *TemplateHandler) ListTemplateContacts(c *gin.Context) {
	contacts, err := h.templates.ListTemplateContacts(c.Param("id"), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// AssociateContacts handles linking existing contacts to a template
// (POST /api/templates/:id/contacts)
func (h *TemplateHandler) AssociateContacts(c *gin.Context) {
	logger.Info("Associate contacts endpoint called")

	var req models.AssociateContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid associate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.templates.Associate(c.Param("id"), req.Contacts, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DisassociateContacts handles unlinking contacts from a template. The batch
// is all-or-nothing; one unlinked contact fails the whole request.
// (DELETE /api/templates/:id/contacts)
func (h *TemplateHandler) DisassociateContacts(c *gin.Context) {
	logger.Info("Disassociate contacts endpoint called")

	var req models.AssociateContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid disassociate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.templates.Disassociate(c.Param("id"), req.Contacts, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contacts removed from template"})
}

// SendTemplate handles dispatching a template to all its contacts
// (POST /api/templates/:id/send)
func (h *TemplateHandler) SendTemplate(c *gin.Context) {
	logger.Info("Send template endpoint called")

	results, err := h.dispatch.SendTemplate(c.Param("id"), currentUserID(c))
	if err != nil {
		logger.Error("Template dispatch failed",
			zap.String("template_id", c.Param("id")),
			zap.Int("dispatched", len(results)),
			zap.Error(err),
		)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}
