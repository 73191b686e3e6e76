package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vibe-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

const chatColumns = `id, event_id, participant_ids, created_at, last_message_at`

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	FindEventChatsForUser(ctx context.Context, eventID, userID string) ([]models.Chat, error)
	CreateChat(ctx context.Context, eventID *string, participantIDs []string, lastMessageAt time.Time) (models.Chat, error)
	GetChat(ctx context.Context, chatID string) (models.Chat, error)
	ListChats(ctx context.Context, userID string) ([]models.ChatSummary, error)
	TouchLastMessage(ctx context.Context, chatID string, at time.Time) error
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// FindEventChatsForUser returns chats of the event whose participants include
// the user, in insertion order.
func (r *ChatRepo) FindEventChatsForUser(ctx context.Context, eventID, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.SelectContext(ctx, &chats, `SELECT `+chatColumns+` FROM chats
        WHERE event_id=$1 AND participant_ids @> ARRAY[$2]::text[]
        ORDER BY created_at ASC`, eventID, userID)
	return chats, err
}

// CreateChat inserts a chat row.
func (r *ChatRepo) CreateChat(ctx context.Context, eventID *string, participantIDs []string, lastMessageAt time.Time) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `INSERT INTO chats (event_id, participant_ids, last_message_at) VALUES ($1, $2, $3)
        RETURNING `+chatColumns, eventID, pq.StringArray(participantIDs), lastMessageAt)
	return chat, err
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID string) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// ListChats returns the user's chats, most recently active first, with the
// content of their latest message.
func (r *ChatRepo) ListChats(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	query := `SELECT c.id, c.event_id, c.participant_ids, c.created_at, c.last_message_at,
            (SELECT m.content FROM messages m WHERE m.chat_id = c.id ORDER BY m.created_at DESC LIMIT 1) AS last_message
        FROM chats c
        WHERE c.participant_ids @> ARRAY[$1]::text[]
        ORDER BY c.last_message_at DESC`
	var chats []models.ChatSummary
	err := r.db.SelectContext(ctx, &chats, query, userID)
	return chats, err
}

// TouchLastMessage moves the chat's last activity timestamp.
func (r *ChatRepo) TouchLastMessage(ctx context.Context, chatID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE chats SET last_message_at=$2 WHERE id=$1`, chatID, at)
	return expectOneRow(res, err, ErrChatNotFound)
}
