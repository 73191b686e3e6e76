package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
)

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) CreateProfile(ctx context.Context, email, passwordHash, name string, age int) (models.Profile, error) {
	args := m.Called(ctx, email, passwordHash, name, age)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	args := m.Called(ctx, id)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	args := m.Called(ctx, email)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) UpdateProfile(ctx context.Context, id, name string, bio *string, tags []string) error {
	args := m.Called(ctx, id, name, bio, tags)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) SetAvatar(ctx context.Context, id, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) IncrementChatsStarted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) CreateEvent(ctx context.Context, e repositories.NewEvent) (models.Event, error) {
	args := m.Called(ctx, e)
	var ev models.Event
	if val := args.Get(0); val != nil {
		ev = val.(models.Event)
	}
	return ev, args.Error(1)
}

func (m *EventRepositoryMock) GetEvent(ctx context.Context, id string) (models.Event, error) {
	args := m.Called(ctx, id)
	var ev models.Event
	if val := args.Get(0); val != nil {
		ev = val.(models.Event)
	}
	return ev, args.Error(1)
}

func (m *EventRepositoryMock) ListWithinRadius(ctx context.Context, lat, lng, radiusKm float64, viewerID string, now time.Time) ([]models.Event, error) {
	args := m.Called(ctx, lat, lng, radiusKm, viewerID, now)
	var list []models.Event
	if val := args.Get(0); val != nil {
		list = val.([]models.Event)
	}
	return list, args.Error(1)
}

func (m *EventRepositoryMock) ActiveEventForCreator(ctx context.Context, creatorID string, now time.Time) (models.Event, error) {
	args := m.Called(ctx, creatorID, now)
	var ev models.Event
	if val := args.Get(0); val != nil {
		ev = val.(models.Event)
	}
	return ev, args.Error(1)
}

func (m *EventRepositoryMock) SetPrivacy(ctx context.Context, id string, privacy models.Privacy) error {
	args := m.Called(ctx, id, privacy)
	return args.Error(0)
}

func (m *EventRepositoryMock) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EventRepositoryMock) ListMembers(ctx context.Context, eventID string, status models.AttendanceStatus) ([]models.EventMember, error) {
	args := m.Called(ctx, eventID, status)
	var list []models.EventMember
	if val := args.Get(0); val != nil {
		list = val.([]models.EventMember)
	}
	return list, args.Error(1)
}

func (m *EventRepositoryMock) AddMember(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error {
	args := m.Called(ctx, eventID, userID, status)
	return args.Error(0)
}

func (m *EventRepositoryMock) SetMemberStatus(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error {
	args := m.Called(ctx, eventID, userID, status)
	return args.Error(0)
}

func (m *EventRepositoryMock) UpsertAttendee(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error {
	args := m.Called(ctx, eventID, userID, status)
	return args.Error(0)
}

func (m *EventRepositoryMock) ListAttendees(ctx context.Context, eventID string) ([]models.Attendee, error) {
	args := m.Called(ctx, eventID)
	var list []models.Attendee
	if val := args.Get(0); val != nil {
		list = val.([]models.Attendee)
	}
	return list, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, adminID, name, description string, avatarURL *string) (models.Group, error) {
	args := m.Called(ctx, adminID, name, description, avatarURL)
	var g models.Group
	if val := args.Get(0); val != nil {
		g = val.(models.Group)
	}
	return g, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	var list []models.Group
	if val := args.Get(0); val != nil {
		list = val.([]models.Group)
	}
	return list, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID string) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var g models.Group
	if val := args.Get(0); val != nil {
		g = val.(models.Group)
	}
	return g, args.Error(1)
}

func (m *GroupRepositoryMock) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	args := m.Called(ctx, groupID)
	var list []models.GroupMember
	if val := args.Get(0); val != nil {
		list = val.([]models.GroupMember)
	}
	return list, args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID, userID string, status models.AttendanceStatus) error {
	args := m.Called(ctx, groupID, userID, status)
	return args.Error(0)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) FindEventChatsForUser(ctx context.Context, eventID, userID string) ([]models.Chat, error) {
	args := m.Called(ctx, eventID, userID)
	var list []models.Chat
	if val := args.Get(0); val != nil {
		list = val.([]models.Chat)
	}
	return list, args.Error(1)
}

func (m *ChatRepositoryMock) CreateChat(ctx context.Context, eventID *string, participantIDs []string, lastMessageAt time.Time) (models.Chat, error) {
	args := m.Called(ctx, eventID, participantIDs, lastMessageAt)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID string) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) ListChats(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

func (m *ChatRepositoryMock) TouchLastMessage(ctx context.Context, chatID string, at time.Time) error {
	args := m.Called(ctx, chatID, at)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID, senderID, content string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) FindPending(ctx context.Context, fromID, toID string) (models.Friendship, error) {
	args := m.Called(ctx, fromID, toID)
	var f models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(models.Friendship)
	}
	return f, args.Error(1)
}

func (m *FriendshipRepositoryMock) CreateRequest(ctx context.Context, fromID, toID string) (models.Friendship, error) {
	args := m.Called(ctx, fromID, toID)
	var f models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(models.Friendship)
	}
	return f, args.Error(1)
}

func (m *FriendshipRepositoryMock) AcceptPending(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FriendshipRepositoryMock) ListForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	var list []models.Friendship
	if val := args.Get(0); val != nil {
		list = val.([]models.Friendship)
	}
	return list, args.Error(1)
}

var (
	_ repositories.ProfileRepository    = (*ProfileRepositoryMock)(nil)
	_ repositories.EventRepository      = (*EventRepositoryMock)(nil)
	_ repositories.GroupRepository      = (*GroupRepositoryMock)(nil)
	_ repositories.ChatRepository       = (*ChatRepositoryMock)(nil)
	_ repositories.MessageRepository    = (*MessageRepositoryMock)(nil)
	_ repositories.FriendshipRepository = (*FriendshipRepositoryMock)(nil)
)
