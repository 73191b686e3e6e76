package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"vibe-service/internal/models"
	"vibe-service/internal/observability"
)

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(raw string) (string, error)
}

// ChatAuthorizer returns the chat when userID participates in it.
type ChatAuthorizer interface {
	Authorize(ctx context.Context, userID, chatID string) (models.Chat, error)
}

// ChatWebSocketHandler handles chat websocket connections.
type ChatWebSocketHandler struct {
	hub    *Hub
	chats  ChatAuthorizer
	tokens TokenValidator
}

// NewChatWebSocketHandler constructs a ChatWebSocketHandler.
func NewChatWebSocketHandler(hub *Hub, chats ChatAuthorizer, tokens TokenValidator) *ChatWebSocketHandler {
	return &ChatWebSocketHandler{hub: hub, chats: chats, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates the viewer, upgrades the connection and registers it
// on the chat room until the client goes away.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	chatID := c.Param("id")
	if chatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("vibe-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	span.SetAttributes(attribute.String("chat.id", chatID))
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.tokens.ValidateToken(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if _, err := h.chats.Authorize(ctx, userID, chatID); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	meta := observability.ClientMetaFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    meta.DeviceID,
		IP:          meta.IP,
		RequestID:   meta.RequestID,
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddChatClient(chatID, conn, info)

	observability.IncWSActive("chat")
	publishWSEvent(ctx, chatID, info, "ws_connect", "")

	// the request context ends with the handler; the reader outlives it
	go h.readLoop(context.WithoutCancel(ctx), chatID, conn, info)
}

func (h *ChatWebSocketHandler) readLoop(ctx context.Context, chatID string, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.hub.RemoveChatClient(chatID, conn)
		observability.DecWSActive("chat")
		publishWSEvent(ctx, chatID, info, "ws_disconnect", closeReason)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				publishWSEvent(ctx, chatID, info, "ws_error", closeReason)
			}
			return
		}
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}
