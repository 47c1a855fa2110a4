package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juliusmarkwei/swift-send/internal/gateway"
	"github.com/juliusmarkwei/swift-send/internal/services"
)

// respondServiceError translates a service error into an HTTP response.
// Gateway failures surface as 502 so callers can tell an upstream outage from
// their own bad request.
func respondServiceError(c *gin.Context, err error) {
	var gatewayErr *gateway.Error
	switch {
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "SMS gateway request failed"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNoRecipients),
		errors.Is(err, services.ErrNotAssociated):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUserID returns the authenticated user's ID set by the auth middleware
func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	return id
}
