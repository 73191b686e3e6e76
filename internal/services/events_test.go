package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibe-service/internal/mocks"
	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
	"vibe-service/internal/storage"
)

func newEventService() (*EventService, *mocks.EventRepositoryMock, *mocks.FriendshipRepositoryMock, *mocks.ObjectStoreMock) {
	events := new(mocks.EventRepositoryMock)
	friendships := new(mocks.FriendshipRepositoryMock)
	store := new(mocks.ObjectStoreMock)
	svc := NewEventService(events, friendships, store, 24*time.Hour).WithClock(func() time.Time { return fixedNow })
	return svc, events, friendships, store
}

func TestCreateEventUploadsPhotosAndSetsExpiry(t *testing.T) {
	svc, events, _, store := newEventService()
	lat, lng := -34.6, -58.4
	start := fixedNow.Add(time.Hour)
	path := fmt.Sprintf("u1/%d_0.jpg", fixedNow.UnixNano())

	store.On("Upload", mock.Anything, storage.BucketEventPhotos, path, []byte("img"), "image/jpeg").
		Return("http://cdn/event-photos/"+path, nil)
	events.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e repositories.NewEvent) bool {
		return e.Title == "Asado" && e.Description == "en la terraza" && e.RadiusMeters == 500 &&
			e.ExpiresAt.Equal(start.Add(24*time.Hour)) &&
			len(e.Photos) == 1 && e.Privacy == models.PrivacyPublic
	})).Return(models.Event{ID: "e1", Title: "Asado"}, nil)

	event, err := svc.Create(context.Background(), "u1", CreateEventInput{
		Title:       " Asado ",
		Description: "en la terraza ",
		Latitude:    &lat,
		Longitude:   &lng,
		StartTime:   start,
		Photos:      []Photo{{Data: []byte("img")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", event.ID)
	store.AssertExpectations(t)
}

func TestCreateEventRequiresTitleAndLocation(t *testing.T) {
	svc, events, _, _ := newEventService()

	_, err := svc.Create(context.Background(), "u1", CreateEventInput{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(context.Background(), "u1", CreateEventInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestCreateEventRequiresDescription(t *testing.T) {
	svc, events, _, store := newEventService()
	lat, lng := -34.6, -58.4

	_, err := svc.Create(context.Background(), "u1", CreateEventInput{
		Title:       "Asado",
		Description: "   ",
		Latitude:    &lat,
		Longitude:   &lng,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateEventRejectsMoreThanThreePhotos(t *testing.T) {
	svc, events, _, store := newEventService()
	lat, lng := -34.6, -58.4
	photo := Photo{Data: []byte("img")}

	_, err := svc.Create(context.Background(), "u1", CreateEventInput{
		Title:       "Asado",
		Description: "en la terraza",
		Latitude:    &lat,
		Longitude:   &lng,
		Photos:      []Photo{photo, photo, photo, photo},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNearbyValidatesRadius(t *testing.T) {
	svc, events, _, _ := newEventService()

	events.On("ListWithinRadius", mock.Anything, 1.0, 2.0, float64(DefaultRadiusKm), "u1", fixedNow).
		Return([]models.Event{{ID: "e1"}}, nil)

	list, err := svc.Nearby(context.Background(), "u1", 1, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Nearby(context.Background(), "u1", 1, 2, 25)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetHidesSecretEventFromOthers(t *testing.T) {
	svc, events, _, _ := newEventService()

	events.On("GetEvent", mock.Anything, "e1").
		Return(models.Event{ID: "e1", CreatorID: "owner", Privacy: models.PrivacySecret}, nil)

	_, err := svc.Get(context.Background(), "stranger", "e1")
	assert.ErrorIs(t, err, repositories.ErrEventNotFound)

	event, err := svc.Get(context.Background(), "owner", "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", event.ID)
}

func TestTogglePrivacyOwnerOnly(t *testing.T) {
	svc, events, _, _ := newEventService()

	events.On("GetEvent", mock.Anything, "e1").
		Return(models.Event{ID: "e1", CreatorID: "owner", Privacy: models.PrivacyPublic}, nil)
	events.On("SetPrivacy", mock.Anything, "e1", models.PrivacySecret).Return(nil)

	_, err := svc.TogglePrivacy(context.Background(), "other", "e1")
	assert.ErrorIs(t, err, ErrForbidden)

	event, err := svc.TogglePrivacy(context.Background(), "owner", "e1")
	require.NoError(t, err)
	assert.Equal(t, models.PrivacySecret, event.Privacy)
}

func TestAttendeesCarryFriendshipStatus(t *testing.T) {
	svc, events, friendships, _ := newEventService()

	events.On("GetEvent", mock.Anything, "e1").Return(models.Event{ID: "e1", CreatorID: "c"}, nil)
	events.On("ListAttendees", mock.Anything, "e1").
		Return([]models.Attendee{{UserID: "a"}, {UserID: "b"}}, nil)
	friendships.On("ListForUser", mock.Anything, "viewer").
		Return([]models.Friendship{{UserID1: "a", UserID2: "viewer", Status: models.MatchAccepted}}, nil)

	list, err := svc.Attendees(context.Background(), "viewer", "e1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.MatchAccepted, list[0].FriendshipStatus)
	assert.Equal(t, models.MatchNone, list[1].FriendshipStatus)
}

func TestAttendRejectsExpiredEvent(t *testing.T) {
	svc, events, _, _ := newEventService()

	events.On("GetEvent", mock.Anything, "e1").
		Return(models.Event{ID: "e1", CreatorID: "c", ExpiresAt: fixedNow.Add(-time.Minute)}, nil)

	err := svc.Attend(context.Background(), "u1", "e1")
	assert.ErrorIs(t, err, ErrEventExpired)
}
