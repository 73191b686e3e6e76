package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibe-service/internal/models"
)

var ErrFriendshipNotFound = errors.New("friendship not found")

const friendshipColumns = `id, user_id_1, user_id_2, status, created_at`

// FriendshipRepository abstracts Vibrar relationship persistence.
type FriendshipRepository interface {
	FindPending(ctx context.Context, fromID, toID string) (models.Friendship, error)
	CreateRequest(ctx context.Context, fromID, toID string) (models.Friendship, error)
	AcceptPending(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]models.Friendship, error)
}

// FriendshipRepo is a sqlx implementation of FriendshipRepository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs a FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

// FindPending looks up a pending request held as fromID -> toID.
func (r *FriendshipRepo) FindPending(ctx context.Context, fromID, toID string) (models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f, `SELECT `+friendshipColumns+` FROM friendships
        WHERE user_id_1=$1 AND user_id_2=$2 AND status='pending'`, fromID, toID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return f, err
}

// CreateRequest inserts a pending row. The unordered-pair unique index turns
// any existing relationship into ErrDuplicate.
func (r *FriendshipRepo) CreateRequest(ctx context.Context, fromID, toID string) (models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f, `INSERT INTO friendships (user_id_1, user_id_2, status) VALUES ($1, $2, 'pending')
        RETURNING `+friendshipColumns, fromID, toID)
	if err != nil {
		return models.Friendship{}, translateInsertErr(err)
	}
	return f, nil
}

// AcceptPending flips a pending row to accepted. A row that is no longer
// pending yields ErrFriendshipNotFound.
func (r *FriendshipRepo) AcceptPending(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE friendships SET status='accepted' WHERE id=$1 AND status='pending'`, id)
	return expectOneRow(res, err, ErrFriendshipNotFound)
}

// ListForUser returns relationships where the user holds either column.
func (r *FriendshipRepo) ListForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.SelectContext(ctx, &rows, `SELECT `+friendshipColumns+` FROM friendships
        WHERE user_id_1=$1 OR user_id_2=$1 ORDER BY created_at DESC`, userID)
	return rows, err
}
