package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/repositories"
	"vibe-service/internal/services"
	"vibe-service/internal/storage"
)

// respondError maps domain errors to HTTP responses. Unknown errors are
// logged and reported as retryable server failures.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChatLimitReached):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "chat_limit_reached", "upsell": "premium"})
	case errors.Is(err, services.ErrOwnEvent):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "own_event"})
	case errors.Is(err, services.ErrAlreadyConnected),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, repositories.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conflict"})
	case errors.Is(err, services.ErrEventExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error(), "code": "expired"})
	case errors.Is(err, services.ErrUnderAge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "under_age"})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrSelfMatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "invalid_credentials"})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "forbidden"})
	case errors.Is(err, repositories.ErrEventNotFound),
		errors.Is(err, repositories.ErrChatNotFound),
		errors.Is(err, repositories.ErrGroupNotFound),
		errors.Is(err, repositories.ErrMemberNotFound),
		errors.Is(err, repositories.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, services.ErrResolveParticipants):
		log.Printf("join failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrResolveParticipants.Error(), "code": "retryable"})
	case errors.Is(err, storage.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "storage_disabled"})
	default:
		log.Printf("request %s failed: %v", requestIDFromContext(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "retryable"})
	}
}
