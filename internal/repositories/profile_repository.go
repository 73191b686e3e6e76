package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vibe-service/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `id, email, password_hash, name, age, avatar_url, bio, tags, is_verified,
        subscription_type, chats_started_today, chat_limit_reset, created_at`

// ProfileRepository abstracts profile persistence.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, email, passwordHash, name string, age int) (models.Profile, error)
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	UpdateProfile(ctx context.Context, id, name string, bio *string, tags []string) error
	SetAvatar(ctx context.Context, id, avatarURL string) error
	IncrementChatsStarted(ctx context.Context, id string) error
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// CreateProfile inserts a free-tier profile.
func (r *ProfileRepo) CreateProfile(ctx context.Context, email, passwordHash, name string, age int) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `INSERT INTO profiles (email, password_hash, name, age) VALUES ($1, $2, $3, $4)
        RETURNING `+profileColumns, email, passwordHash, name, age)
	return p, translateInsertErr(err)
}

// GetProfile fetches a profile by id.
func (r *ProfileRepo) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// GetProfileByEmail fetches a profile by login email.
func (r *ProfileRepo) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// UpdateProfile replaces the editable profile fields.
func (r *ProfileRepo) UpdateProfile(ctx context.Context, id, name string, bio *string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET name=$2, bio=$3, tags=$4 WHERE id=$1`, id, name, bio, pq.StringArray(tags))
	return expectOneRow(res, err, ErrProfileNotFound)
}

// SetAvatar stores the public URL of the profile picture.
func (r *ProfileRepo) SetAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET avatar_url=$2 WHERE id=$1`, id, avatarURL)
	return expectOneRow(res, err, ErrProfileNotFound)
}

// IncrementChatsStarted bumps the daily chat counter as a single row update.
// A counter whose reset boundary has passed restarts at one for a new day.
func (r *ProfileRepo) IncrementChatsStarted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET
        chats_started_today = CASE WHEN chat_limit_reset <= NOW() THEN 1 ELSE chats_started_today + 1 END,
        chat_limit_reset = CASE WHEN chat_limit_reset <= NOW() THEN NOW() + INTERVAL '1 day' ELSE chat_limit_reset END
        WHERE id=$1`, id)
	return expectOneRow(res, err, ErrProfileNotFound)
}

func expectOneRow(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
