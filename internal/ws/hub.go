package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vibe-service/internal/models"
	"vibe-service/internal/observability"
)

const writeWait = 10 * time.Second

type client struct {
	conn    *websocket.Conn
	info    ConnInfo
	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

type room struct {
	clients map[*websocket.Conn]*client
	seen    *seenSet
}

// Hub maintains active chat rooms. A message is delivered to a room at most
// once however many times it is broadcast.
type Hub struct {
	rooms map[string]*room
	mu    sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*room)}
}

// AddChatClient registers a websocket connection to a chat room.
func (h *Hub) AddChatClient(chatID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[chatID]
	if !ok {
		r = &room{clients: make(map[*websocket.Conn]*client), seen: newSeenSet()}
		h.rooms[chatID] = r
	}
	r.clients[conn] = &client{conn: conn, info: info}
}

// RemoveChatClient removes a chat websocket connection.
func (h *Hub) RemoveChatClient(chatID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[chatID]
	if !ok {
		return
	}
	delete(r.clients, conn)
	if len(r.clients) == 0 {
		delete(h.rooms, chatID)
	}
}

// BroadcastChatMessage sends msg to every viewer of chatID. It returns false
// when nobody is connected or the message was already delivered.
func (h *Hub) BroadcastChatMessage(chatID string, msg models.Message) bool {
	h.mu.Lock()
	r, ok := h.rooms[chatID]
	if !ok || !r.seen.add(msg.ID) {
		h.mu.Unlock()
		return false
	}
	clients := make([]*client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	payload, _ := json.Marshal(models.ChatEvent{Type: "message", Message: &msg})
	for _, c := range clients {
		if err := c.write(payload); err != nil {
			log.Printf("websocket write error chat=%s conn=%s: %v", chatID, c.info.ConnID, err)
			c.conn.Close()
			h.RemoveChatClient(chatID, c.conn)
			publishWSEvent(context.Background(), chatID, c.info, "ws_error", err.Error())
		}
	}
	return true
}

// Viewers returns the number of open connections on chatID.
func (h *Hub) Viewers(chatID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[chatID]; ok {
		return len(r.clients)
	}
	return 0
}

func publishWSEvent(ctx context.Context, chatID string, info ConnInfo, event, reason string) {
	observability.IncWSEvent("chat", event)
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "chat",
			"resource_id": chatID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
	envelope := observability.NewEnvelope("ws_events", event, payload).WithTrace(info.RequestID, info.TraceID)
	if err := observability.PublishEvent(ctx, "ws_events.chats", envelope); err != nil {
		log.Printf("publish %s for chat=%s: %v", event, chatID, err)
	}
}
