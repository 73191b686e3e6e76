package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibe-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `id, chat_id, sender_id, content, is_read, created_at`

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID, senderID, content string) (models.Message, error)
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID string) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID, senderID, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `INSERT INTO messages (chat_id, sender_id, content) VALUES ($1, $2, $3)
        RETURNING `+messageColumns, chatID, senderID, content)
	return msg, err
}

// ListMessages returns chat messages in creation order.
func (r *MessageRepo) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE chat_id=$1 ORDER BY created_at ASC`, chatID)
	return msgs, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}
