package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"vibe-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, adminID, name, description string, avatarURL *string) (models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error)
	GetGroup(ctx context.Context, groupID string) (models.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	AddMember(ctx context.Context, groupID, userID string, status models.AttendanceStatus) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup creates a group and adds its admin as an accepted member atomically.
func (r *GroupRepo) CreateGroup(ctx context.Context, adminID, name, description string, avatarURL *string) (models.Group, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var group models.Group
	if err = tx.GetContext(ctx, &group, `INSERT INTO groups (name, description, avatar_url, admin_id) VALUES ($1, $2, $3, $4)
        RETURNING id, name, description, avatar_url, admin_id, created_at`, name, description, avatarURL, adminID); err != nil {
		return models.Group{}, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, status) VALUES ($1, $2, $3)`,
		group.ID, adminID, models.AttendanceAccepted); err != nil {
		return models.Group{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// ListGroupsForUser returns groups that include the user.
func (r *GroupRepo) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.SelectContext(ctx, &groups, `SELECT g.id, g.name, g.description, g.avatar_url, g.admin_id, g.created_at
        FROM groups g INNER JOIN group_members gm ON gm.group_id = g.id
        WHERE gm.user_id=$1 ORDER BY g.created_at DESC`, userID)
	return groups, err
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT id, name, description, avatar_url, admin_id, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// ListMembers returns every membership row of the group, whatever its status.
func (r *GroupRepo) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.SelectContext(ctx, &members, `SELECT group_id, user_id, status, created_at FROM group_members
        WHERE group_id=$1 ORDER BY created_at ASC`, groupID)
	return members, err
}

// AddMember inserts a membership row.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID string, status models.AttendanceStatus) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, status) VALUES ($1, $2, $3)`, groupID, userID, status)
	return translateInsertErr(err)
}

// IsMember checks membership.
func (r *GroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id=$1 AND user_id=$2)`, groupID, userID)
	return exists, err
}
