package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/models"
	"vibe-service/internal/services"
	"vibe-service/internal/telemetry"
)

// Broadcaster pushes a stored message to open viewers of its chat.
type Broadcaster interface {
	BroadcastChatMessage(chatID string, msg models.Message) bool
}

// ChatHandler serves the join flow and chat messaging.
type ChatHandler struct {
	chats    *services.ChatSessionManager
	events   *services.EventService
	profiles services.ProfileLoader
	hub      Broadcaster
	audit    *telemetry.AuditEmitter
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(chats *services.ChatSessionManager, events *services.EventService, profiles services.ProfileLoader, hub Broadcaster, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{chats: chats, events: events, profiles: profiles, hub: hub, audit: audit}
}

type joinEventRequest struct {
	GroupID string `json:"group_id"`
}

// JoinEvent puts the caller, alone or with a group, into the event's chat.
func (h *ChatHandler) JoinEvent(c *gin.Context) {
	var req joinEventRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
			return
		}
	}

	session, ok := loadSession(c, h.profiles)
	if !ok {
		return
	}
	event, err := h.events.Get(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.chats.JoinEvent(c.Request.Context(), session, event, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
		audit(c, h.audit, "chat.create", res.Chat.ID, "event "+event.ID)
	}
	c.JSON(status, gin.H{"chat_id": res.Chat.ID, "created": res.Created, "chat": res.Chat})
}

// ListChats returns chats for the current user.
func (h *ChatHandler) ListChats(c *gin.Context) {
	chats, err := h.chats.Chats(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GetChatMessages returns chat messages.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	messages, err := h.chats.Messages(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// PostChatMessage stores a message and pushes it to open viewers.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	chatID := c.Param("id")
	msg, err := h.chats.PostMessage(c.Request.Context(), userIDFromContext(c), chatID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastChatMessage(chatID, msg)
	c.JSON(http.StatusCreated, msg)
}
