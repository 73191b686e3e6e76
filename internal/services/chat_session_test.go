package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibe-service/internal/mocks"
	"vibe-service/internal/models"
)

var fixedNow = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

type chatFixture struct {
	chats    *mocks.ChatRepositoryMock
	messages *mocks.MessageRepositoryMock
	profiles *mocks.ProfileRepositoryMock
	events   *mocks.EventRepositoryMock
	groups   *mocks.GroupRepositoryMock
	manager  *ChatSessionManager
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		chats:    new(mocks.ChatRepositoryMock),
		messages: new(mocks.MessageRepositoryMock),
		profiles: new(mocks.ProfileRepositoryMock),
		events:   new(mocks.EventRepositoryMock),
		groups:   new(mocks.GroupRepositoryMock),
	}
	resolver := NewParticipantResolver(f.events, f.groups)
	f.manager = NewChatSessionManager(f.chats, f.messages, f.profiles, f.events, resolver, 5).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func freeSession(loader ProfileLoader, started int) *Session {
	return &Session{
		UserID: "u1",
		Profile: models.Profile{
			ID:                "u1",
			SubscriptionType:  models.SubscriptionFree,
			ChatsStartedToday: started,
			ChatLimitReset:    fixedNow.Add(6 * time.Hour),
		},
		loader: loader,
	}
}

func TestResolveChatReturnsExistingChatTwice(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 5)
	existing := models.Chat{ID: "chat-1", ParticipantIDs: []string{"u1", "c"}}

	f.chats.On("FindEventChatsForUser", mock.Anything, "e1", "u1").
		Return([]models.Chat{existing, {ID: "chat-2"}}, nil).Twice()

	first, err := f.manager.ResolveChat(context.Background(), session, "e1", []string{"u1", "c", "x"})
	require.NoError(t, err)
	second, err := f.manager.ResolveChat(context.Background(), session, "e1", []string{"u1", "c", "y"})
	require.NoError(t, err)

	assert.Equal(t, "chat-1", first.Chat.ID)
	assert.Equal(t, first.Chat.ID, second.Chat.ID)
	assert.False(t, first.Created)
	assert.Equal(t, []string{"u1", "c"}, []string(second.Chat.ParticipantIDs))
	f.chats.AssertNotCalled(t, "CreateChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.profiles.AssertNotCalled(t, "IncrementChatsStarted", mock.Anything, mock.Anything)
}

func TestResolveChatRefusesWhenQuotaReached(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 5)

	f.chats.On("FindEventChatsForUser", mock.Anything, "e1", "u1").Return([]models.Chat{}, nil)

	_, err := f.manager.ResolveChat(context.Background(), session, "e1", []string{"u1", "c"})
	assert.ErrorIs(t, err, ErrChatLimitReached)
	f.chats.AssertNotCalled(t, "CreateChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveChatQuotaResetsAfterBoundary(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 5)
	session.Profile.ChatLimitReset = fixedNow.Add(-time.Minute)
	created := models.Chat{ID: "chat-new", ParticipantIDs: []string{"u1", "c"}}

	f.chats.On("FindEventChatsForUser", mock.Anything, "e1", "u1").Return([]models.Chat{}, nil)
	f.chats.On("CreateChat", mock.Anything, mock.Anything, []string{"u1", "c"}, fixedNow).Return(created, nil)
	f.profiles.On("IncrementChatsStarted", mock.Anything, "u1").Return(nil)
	f.profiles.On("GetProfile", mock.Anything, "u1").Return(models.Profile{ID: "u1", ChatsStartedToday: 1}, nil)

	res, err := f.manager.ResolveChat(context.Background(), session, "e1", []string{"u1", "c"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 1, session.Profile.ChatsStartedToday)
}

func TestResolveChatPremiumIgnoresQuota(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 40)
	session.Profile.SubscriptionType = models.SubscriptionPremium

	f.chats.On("FindEventChatsForUser", mock.Anything, "e1", "u1").Return([]models.Chat{}, nil)
	f.chats.On("CreateChat", mock.Anything, mock.Anything, mock.Anything, fixedNow).Return(models.Chat{ID: "chat-p"}, nil)
	f.profiles.On("IncrementChatsStarted", mock.Anything, "u1").Return(nil)
	f.profiles.On("GetProfile", mock.Anything, "u1").Return(session.Profile, nil)

	res, err := f.manager.ResolveChat(context.Background(), session, "e1", []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "chat-p", res.Chat.ID)
}

func TestResolveChatIncrementFailureIsNotFatal(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 2)

	f.chats.On("FindEventChatsForUser", mock.Anything, "e1", "u1").Return([]models.Chat{}, nil)
	f.chats.On("CreateChat", mock.Anything, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == "e1"
	}), []string{"u1", "c"}, fixedNow).Return(models.Chat{ID: "chat-3"}, nil)
	f.profiles.On("IncrementChatsStarted", mock.Anything, "u1").Return(errors.New("db down"))
	f.profiles.On("GetProfile", mock.Anything, "u1").Return(models.Profile{}, errors.New("db down"))

	res, err := f.manager.ResolveChat(context.Background(), session, "e1", []string{"u1", "c"})
	require.NoError(t, err)
	assert.Equal(t, "chat-3", res.Chat.ID)
	assert.True(t, res.Created)
}

func TestJoinEventRejectsOwnEvent(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 0)
	event := models.Event{ID: "e1", CreatorID: "u1", ExpiresAt: fixedNow.Add(time.Hour)}

	_, err := f.manager.JoinEvent(context.Background(), session, event, "")
	assert.ErrorIs(t, err, ErrOwnEvent)
	f.events.AssertNotCalled(t, "ListMembers", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinEventCreatesChatWithResolvedParticipants(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 0)
	event := models.Event{ID: "e1", CreatorID: "c", ExpiresAt: fixedNow.Add(time.Hour)}

	f.events.On("ListMembers", mock.Anything, "e1", models.AttendanceAccepted).
		Return([]models.EventMember{{UserID: "h", Status: models.AttendanceAccepted}}, nil)
	f.chats.On("FindEventChatsForUser", mock.Anything, "e1", "u1").Return([]models.Chat{}, nil)
	f.chats.On("CreateChat", mock.Anything, mock.Anything, []string{"u1", "c", "h"}, fixedNow).
		Return(models.Chat{ID: "chat-j"}, nil)
	f.profiles.On("IncrementChatsStarted", mock.Anything, "u1").Return(nil)
	f.profiles.On("GetProfile", mock.Anything, "u1").Return(session.Profile, nil)

	res, err := f.manager.JoinEvent(context.Background(), session, event, "")
	require.NoError(t, err)
	assert.Equal(t, "chat-j", res.Chat.ID)
	f.chats.AssertExpectations(t)
}

func TestJoinEventWithForeignGroupIsForbidden(t *testing.T) {
	f := newChatFixture()
	session := freeSession(f.profiles, 0)
	event := models.Event{ID: "e1", CreatorID: "c", ExpiresAt: fixedNow.Add(time.Hour)}

	f.events.On("ListMembers", mock.Anything, "e1", models.AttendanceAccepted).Return([]models.EventMember{}, nil)
	f.groups.On("GetGroup", mock.Anything, "g-strangers").Return(models.Group{ID: "g-strangers", AdminID: "boss"}, nil)
	f.groups.On("IsMember", mock.Anything, "g-strangers", "u1").Return(false, nil)

	_, err := f.manager.JoinEvent(context.Background(), session, event, "g-strangers")
	assert.ErrorIs(t, err, ErrForbidden)
	f.chats.AssertNotCalled(t, "FindEventChatsForUser", mock.Anything, mock.Anything, mock.Anything)
	f.chats.AssertNotCalled(t, "CreateChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageExpiryGate(t *testing.T) {
	f := newChatFixture()

	expiredAt := fixedNow.Add(-time.Second)
	_, err := f.manager.SendMessage(context.Background(), "chat-1", "u1", "hola", &expiredAt)
	assert.ErrorIs(t, err, ErrEventExpired)
	f.messages.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	openUntil := fixedNow.Add(time.Second)
	msg := models.Message{ID: "m1", ChatID: "chat-1", SenderID: "u1", Content: "hola", CreatedAt: fixedNow}
	f.messages.On("CreateMessage", mock.Anything, "chat-1", "u1", "hola").Return(msg, nil).Once()
	f.chats.On("TouchLastMessage", mock.Anything, "chat-1", fixedNow).Return(nil).Once()

	got, err := f.manager.SendMessage(context.Background(), "chat-1", "u1", "  hola ", &openUntil)
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
	f.messages.AssertExpectations(t)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	f := newChatFixture()

	_, err := f.manager.SendMessage(context.Background(), "chat-1", "u1", " \n\t", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageTouchFailureIsNotFatal(t *testing.T) {
	f := newChatFixture()
	msg := models.Message{ID: "m2", ChatID: "chat-1", CreatedAt: fixedNow}

	f.messages.On("CreateMessage", mock.Anything, "chat-1", "u1", "hey").Return(msg, nil)
	f.chats.On("TouchLastMessage", mock.Anything, "chat-1", fixedNow).Return(errors.New("timeout"))

	got, err := f.manager.SendMessage(context.Background(), "chat-1", "u1", "hey", nil)
	require.NoError(t, err)
	assert.Equal(t, "m2", got.ID)
}

func TestPostMessageRequiresParticipant(t *testing.T) {
	f := newChatFixture()

	f.chats.On("GetChat", mock.Anything, "chat-1").Return(models.Chat{ID: "chat-1", ParticipantIDs: []string{"a", "b"}}, nil)

	_, err := f.manager.PostMessage(context.Background(), "u1", "chat-1", "hey")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestPostMessageUsesEventExpiry(t *testing.T) {
	f := newChatFixture()
	eventID := "e1"

	f.chats.On("GetChat", mock.Anything, "chat-1").
		Return(models.Chat{ID: "chat-1", EventID: &eventID, ParticipantIDs: []string{"u1"}}, nil)
	f.events.On("GetEvent", mock.Anything, "e1").Return(models.Event{ID: "e1", ExpiresAt: fixedNow.Add(-time.Hour)}, nil)

	_, err := f.manager.PostMessage(context.Background(), "u1", "chat-1", "late")
	assert.ErrorIs(t, err, ErrEventExpired)
}
