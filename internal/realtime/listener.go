package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"vibe-service/internal/models"
)

// Channel is the NOTIFY channel fed by the messages insert trigger.
const Channel = "message_inserts"

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

// MessageFetcher loads a stored message by id.
type MessageFetcher interface {
	GetMessage(ctx context.Context, messageID string) (models.Message, error)
}

// Sink receives inserted messages for delivery to chat viewers.
type Sink interface {
	BroadcastChatMessage(chatID string, msg models.Message) bool
	Viewers(chatID string) int
}

type notification struct {
	ID     string `json:"id"`
	ChatID string `json:"chat_id"`
}

// Listener subscribes to message inserts and forwards them to the sink.
type Listener struct {
	dsn      string
	messages MessageFetcher
	sink     Sink
}

func NewListener(dsn string, messages MessageFetcher, sink Sink) *Listener {
	return &Listener{dsn: dsn, messages: messages, sink: sink}
}

// Run listens until ctx is cancelled. The pq listener reconnects on its own;
// inserts missed while disconnected are not replayed.
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("realtime listener event=%d: %v", ev, err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return fmt.Errorf("listen %s: %w", Channel, err)
	}
	log.Printf("realtime listening channel=%s", Channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				log.Printf("realtime listener reconnected")
				continue
			}
			if err := l.handle(ctx, n.Extra); err != nil {
				log.Printf("realtime dispatch failed: %v", err)
			}
		case <-time.After(pingInterval):
			if err := listener.Ping(); err != nil {
				log.Printf("realtime ping failed: %v", err)
			}
		}
	}
}

func (l *Listener) handle(ctx context.Context, payload string) error {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return fmt.Errorf("decode payload %q: %w", payload, err)
	}
	if n.ID == "" || n.ChatID == "" {
		return fmt.Errorf("incomplete payload %q", payload)
	}
	if l.sink.Viewers(n.ChatID) == 0 {
		return nil
	}

	msg, err := l.messages.GetMessage(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("load message %s: %w", n.ID, err)
	}
	l.sink.BroadcastChatMessage(n.ChatID, msg)
	return nil
}
