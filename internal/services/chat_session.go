package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"vibe-service/internal/models"
	"vibe-service/internal/observability"
	"vibe-service/internal/repositories"
)

// ChatResolution is the outcome of resolving a user's chat for an event.
type ChatResolution struct {
	Chat    models.Chat
	Created bool
}

// ChatSessionManager owns event chat lookup, creation under the free-tier
// quota, and message posting.
type ChatSessionManager struct {
	chats          repositories.ChatRepository
	messages       repositories.MessageRepository
	profiles       repositories.ProfileRepository
	events         repositories.EventRepository
	resolver       *ParticipantResolver
	freeDailyLimit int
	now            func() time.Time
}

// NewChatSessionManager constructs a ChatSessionManager. freeDailyLimit is
// the number of chats a free profile may start per reset window.
func NewChatSessionManager(
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	profiles repositories.ProfileRepository,
	events repositories.EventRepository,
	resolver *ParticipantResolver,
	freeDailyLimit int,
) *ChatSessionManager {
	return &ChatSessionManager{
		chats:          chats,
		messages:       messages,
		profiles:       profiles,
		events:         events,
		resolver:       resolver,
		freeDailyLimit: freeDailyLimit,
		now:            time.Now,
	}
}

// WithClock replaces the manager's time source.
func (m *ChatSessionManager) WithClock(now func() time.Time) *ChatSessionManager {
	m.now = now
	return m
}

// JoinEvent is the "join vibe" flow: the session user joins event, alone or
// as groupID, and receives the chat they land in.
func (m *ChatSessionManager) JoinEvent(ctx context.Context, session *Session, event models.Event, groupID string) (ChatResolution, error) {
	if event.CreatorID == session.UserID {
		return ChatResolution{}, ErrOwnEvent
	}
	if event.Expired(m.now()) {
		return ChatResolution{}, ErrEventExpired
	}

	participants, err := m.resolver.Resolve(ctx, session.UserID, event, groupID)
	if err != nil {
		return ChatResolution{}, err
	}
	return m.ResolveChat(ctx, session, event.ID, participants)
}

// ResolveChat returns the existing chat of eventID that already contains the
// session user, or creates one with participantIDs when quota allows.
// Reuse never consumes quota.
func (m *ChatSessionManager) ResolveChat(ctx context.Context, session *Session, eventID string, participantIDs []string) (ChatResolution, error) {
	ctx, span := otel.Tracer("vibe-service/services").Start(ctx, "chat.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", eventID),
		attribute.String("user.id", session.UserID),
	)

	existing, err := m.chats.FindEventChatsForUser(ctx, eventID, session.UserID)
	if err != nil {
		span.RecordError(err)
		return ChatResolution{}, fmt.Errorf("find event chat: %w", err)
	}
	if len(existing) > 0 {
		// several matches can exist after concurrent creation; oldest wins
		span.SetAttributes(attribute.Bool("chat.created", false))
		return ChatResolution{Chat: existing[0]}, nil
	}

	if m.quotaExhausted(session.Profile) {
		observability.IncChatQuotaRefusal()
		span.SetAttributes(attribute.Bool("chat.quota_refused", true))
		return ChatResolution{}, ErrChatLimitReached
	}

	eid := eventID
	chat, err := m.chats.CreateChat(ctx, &eid, participantIDs, m.now())
	if err != nil {
		span.RecordError(err)
		return ChatResolution{}, fmt.Errorf("create chat: %w", err)
	}
	observability.IncChatCreated()
	span.SetAttributes(attribute.Bool("chat.created", true))

	bestEffort(ctx, "increment_chats_started", func(ctx context.Context) error {
		return m.profiles.IncrementChatsStarted(ctx, session.UserID)
	})
	if err := session.Refresh(ctx); err != nil {
		log.Printf("session refresh after chat create user=%s: %v", session.UserID, err)
	}

	publishDomainEvent(ctx, "chat.created", "chat_created", map[string]interface{}{
		"chat_id":         chat.ID,
		"event_id":        eventID,
		"created_by":      session.UserID,
		"participant_ids": []string(chat.ParticipantIDs),
	})

	return ChatResolution{Chat: chat, Created: true}, nil
}

func (m *ChatSessionManager) quotaExhausted(p models.Profile) bool {
	if p.SubscriptionType != models.SubscriptionFree {
		return false
	}
	return p.ChatsStartedAt(m.now()) >= m.freeDailyLimit
}

// SendMessage posts content to chatID. eventExpiresAt is the expiry of the
// chat's event, nil for chats without one.
func (m *ChatSessionManager) SendMessage(ctx context.Context, chatID, senderID, content string, eventExpiresAt *time.Time) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if eventExpiresAt != nil && m.now().After(*eventExpiresAt) {
		return models.Message{}, ErrEventExpired
	}

	msg, err := m.messages.CreateMessage(ctx, chatID, senderID, content)
	if err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}

	bestEffort(ctx, "touch_last_message", func(ctx context.Context) error {
		return m.chats.TouchLastMessage(ctx, chatID, msg.CreatedAt)
	})
	return msg, nil
}

// PostMessage checks that userID participates in chatID, looks up the
// chat's event expiry, and sends content.
func (m *ChatSessionManager) PostMessage(ctx context.Context, userID, chatID, content string) (models.Message, error) {
	chat, err := m.participantChat(ctx, userID, chatID)
	if err != nil {
		return models.Message{}, err
	}

	var expiresAt *time.Time
	if chat.EventID != nil {
		event, err := m.events.GetEvent(ctx, *chat.EventID)
		if err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return models.Message{}, ErrEventExpired
			}
			return models.Message{}, fmt.Errorf("load chat event: %w", err)
		}
		expiresAt = &event.ExpiresAt
	}
	return m.SendMessage(ctx, chatID, userID, content, expiresAt)
}

// Messages returns the history of chatID for a participant.
func (m *ChatSessionManager) Messages(ctx context.Context, userID, chatID string) ([]models.Message, error) {
	if _, err := m.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return m.messages.ListMessages(ctx, chatID)
}

// Chats lists userID's chats, most recently active first.
func (m *ChatSessionManager) Chats(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	return m.chats.ListChats(ctx, userID)
}

// Authorize returns chatID when userID participates in it.
func (m *ChatSessionManager) Authorize(ctx context.Context, userID, chatID string) (models.Chat, error) {
	return m.participantChat(ctx, userID, chatID)
}

func (m *ChatSessionManager) participantChat(ctx context.Context, userID, chatID string) (models.Chat, error) {
	chat, err := m.chats.GetChat(ctx, chatID)
	if err != nil {
		return models.Chat{}, err
	}
	if !chat.HasParticipant(userID) {
		return models.Chat{}, ErrNotParticipant
	}
	return chat, nil
}
