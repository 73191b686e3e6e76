package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/telemetry"
)

// ViewerCounter reports how many sockets are open on a chat.
type ViewerCounter interface {
	Viewers(chatID string) int
}

// DebugStatus is the runtime wiring reported by /debug/status.
type DebugStatus struct {
	PublisherMode       string        `json:"publisher_mode"`
	PublisherNoopReason string        `json:"publisher_noop_reason,omitempty"`
	StorageEnabled      bool          `json:"storage_enabled"`
	FreeDailyChatLimit  int           `json:"free_daily_chat_limit"`
	EventTTL            time.Duration `json:"-"`
}

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router gin.IRoutes, emitter *telemetry.AuditEmitter, viewers ViewerCounter, status DebugStatus, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": status, "event_ttl": status.EventTTL.String()})
	})

	router.GET("/debug/chats/:id/viewers", func(c *gin.Context) {
		chatID := c.Param("id")
		c.JSON(http.StatusOK, gin.H{"chat_id": chatID, "viewers": viewers.Viewers(chatID)})
	})

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		audit(c, emitter, "debug.audit_test", "", "audit test")
		c.JSON(http.StatusOK, gin.H{"status": "ok", "request_id": requestIDFromContext(c)})
	})
}
