package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/pkg/logger"
)

// MessageHandler handles ad hoc dispatch and message log requests
type MessageHandler struct {
	dispatch DispatchServiceInterface
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(dispatch DispatchServiceInterface) *MessageHandler {
	return &MessageHandler{dispatch: dispatch}
}

// SendMessage handles sending a message to ad hoc recipients
// (POST /api/messages/send)
func (h *MessageHandler) SendMessage(c *gin.Context) {
	logger.Info("Send message endpoint called")

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid send request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.dispatch.SendToRecipients(req.Message, req.To, currentUserID(c))
	if err != nil {
		logger.Error("Dispatch failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResendMessage handles resending a logged message to its surviving contacts
// (POST /api/messages/:id/resend)
func (h *MessageHandler) ResendMessage(c *gin.Context) {
	logger.Info("Resend message endpoint called")

	// The body is optional; an empty one keeps the original content
	var req models.ResendMessageRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Invalid resend request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	result, err := h.dispatch.Resend(c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		logger.Error("Resend failed",
			zap.String("message_log_id", c.Param("id")),
			zap.Error(err),
		)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMessages handles listing the caller's message logs, most recent first
// (GET /api/messages)
func (h *MessageHandler) ListMessages(c *gin.Context) {
	logs, err := h.dispatch.ListLogs(currentUserID(c))
	if err != nil {
		logger.Error("Failed to list message logs", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": logs,
		"count":    len(logs),
	})
}

// GetMessage handles retrieving one message log with its recipient rows
// (GET /api/messages/:id)
func (h *MessageHandler) GetMessage(c *gin.Context) {
	log, recipients, err := h.dispatch.GetLog(c.Param("id"), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    log,
		"recipients": recipients,
	})
}
