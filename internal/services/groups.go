package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
	"vibe-service/internal/storage"
)

// GroupService manages friend groups used for joining events together.
type GroupService struct {
	groups repositories.GroupRepository
	store  storage.ObjectStore
	now    func() int64
}

func NewGroupService(groups repositories.GroupRepository, store storage.ObjectStore) *GroupService {
	return &GroupService{groups: groups, store: store, now: unixNano}
}

// Create stores a group with adminID as its accepted admin member.
func (s *GroupService) Create(ctx context.Context, adminID, name, description string, avatar *Photo) (models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Group{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var avatarURL *string
	if avatar != nil && len(avatar.Data) > 0 {
		contentType := avatar.ContentType
		if contentType == "" {
			contentType = photoContentTypeJP
		}
		path := fmt.Sprintf("groups/%s_%d.jpg", adminID, s.now())
		url, err := s.store.Upload(ctx, storage.BucketAvatars, path, avatar.Data, contentType)
		if err != nil {
			return models.Group{}, fmt.Errorf("upload group avatar: %w", err)
		}
		avatarURL = &url
	}

	return s.groups.CreateGroup(ctx, adminID, name, strings.TrimSpace(description), avatarURL)
}

// List returns the groups userID belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]models.Group, error) {
	return s.groups.ListGroupsForUser(ctx, userID)
}

// AddMember invites userID into groupID. Only the admin may invite.
func (s *GroupService) AddMember(ctx context.Context, adminID, groupID, userID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.AdminID != adminID {
		return ErrForbidden
	}
	err = s.groups.AddMember(ctx, groupID, userID, models.AttendancePending)
	if errors.Is(err, repositories.ErrDuplicate) {
		return ErrAlreadyConnected
	}
	return err
}

// Members lists groupID's members for a requester that belongs to it.
func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]models.GroupMember, error) {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.groups.ListMembers(ctx, groupID)
}
