package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/services"
	"vibe-service/internal/telemetry"
)

// MatchHandler serves the Vibrar handshake.
type MatchHandler struct {
	matches *services.MatchHandshake
	audit   *telemetry.AuditEmitter
}

func NewMatchHandler(matches *services.MatchHandshake, audit *telemetry.AuditEmitter) *MatchHandler {
	return &MatchHandler{matches: matches, audit: audit}
}

// Vibrar sends or accepts a match request towards :id.
func (h *MatchHandler) Vibrar(c *gin.Context) {
	targetID := c.Param("id")
	outcome, err := h.matches.RequestMatch(c.Request.Context(), userIDFromContext(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.audit, "match."+string(outcome), targetID, "vibrar")
	status := http.StatusCreated
	if outcome == services.OutcomeMatch {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"outcome": outcome})
}

// ListFriendships lists the caller's pending and accepted relations.
func (h *MatchHandler) ListFriendships(c *gin.Context) {
	list, err := h.matches.Friendships(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Status reports the caller's relation with :id.
func (h *MatchHandler) Status(c *gin.Context) {
	status, err := h.matches.Status(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
