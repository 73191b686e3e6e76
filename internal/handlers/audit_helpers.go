package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibe-service/internal/telemetry"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) string {
	return c.GetString("userID")
}

func audit(c *gin.Context, emitter *telemetry.AuditEmitter, action, resourceID, text string) {
	emitter.Emit(c.Request.Context(), telemetry.AuditEntry{
		Action:     action,
		ResourceID: resourceID,
		Text:       text,
		RequestID:  requestIDFromContext(c),
		UserID:     userIDFromContext(c),
	})
}
