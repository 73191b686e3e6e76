package models

import (
	"time"

	"github.com/lib/pq"
)

// Chat is a messaging thread scoped to at most one event.
type Chat struct {
	ID             string         `db:"id" json:"id"`
	EventID        *string        `db:"event_id" json:"event_id,omitempty"`
	ParticipantIDs pq.StringArray `db:"participant_ids" json:"participant_ids"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	LastMessageAt  time.Time      `db:"last_message_at" json:"last_message_at"`
}

// HasParticipant reports whether userID belongs to the chat.
func (c Chat) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ChatSummary is a chat as listed for one user, with a preview.
type ChatSummary struct {
	Chat
	LastMessage *string `db:"last_message" json:"last_message,omitempty"`
}
