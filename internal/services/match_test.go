package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibe-service/internal/mocks"
	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
)

func TestRequestMatchAcceptsReversePending(t *testing.T) {
	repo := new(mocks.FriendshipRepositoryMock)
	h := NewMatchHandshake(repo)

	repo.On("FindPending", mock.Anything, "B", "A").
		Return(models.Friendship{ID: "f1", UserID1: "B", UserID2: "A", Status: models.MatchPending}, nil)
	repo.On("AcceptPending", mock.Anything, "f1").Return(nil)

	outcome, err := h.RequestMatch(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatch, outcome)
	repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestMatchSendsRequest(t *testing.T) {
	repo := new(mocks.FriendshipRepositoryMock)
	h := NewMatchHandshake(repo)

	repo.On("FindPending", mock.Anything, "B", "A").Return(models.Friendship{}, repositories.ErrFriendshipNotFound)
	repo.On("CreateRequest", mock.Anything, "A", "B").
		Return(models.Friendship{ID: "f2", UserID1: "A", UserID2: "B", Status: models.MatchPending}, nil)

	outcome, err := h.RequestMatch(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRequestSent, outcome)
}

func TestRequestMatchTwiceReportsConflict(t *testing.T) {
	repo := new(mocks.FriendshipRepositoryMock)
	h := NewMatchHandshake(repo)

	repo.On("FindPending", mock.Anything, "B", "A").Return(models.Friendship{}, repositories.ErrFriendshipNotFound)
	repo.On("CreateRequest", mock.Anything, "A", "B").
		Return(models.Friendship{ID: "f2", Status: models.MatchPending}, nil).Once()
	repo.On("CreateRequest", mock.Anything, "A", "B").
		Return(models.Friendship{}, repositories.ErrDuplicate).Once()

	outcome, err := h.RequestMatch(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRequestSent, outcome)

	_, err = h.RequestMatch(context.Background(), "A", "B")
	assert.ErrorIs(t, err, ErrAlreadyConnected)
	repo.AssertNumberOfCalls(t, "CreateRequest", 2)
}

func TestRequestMatchLosingAcceptRace(t *testing.T) {
	repo := new(mocks.FriendshipRepositoryMock)
	h := NewMatchHandshake(repo)

	repo.On("FindPending", mock.Anything, "B", "A").Return(models.Friendship{ID: "f1"}, nil)
	repo.On("AcceptPending", mock.Anything, "f1").Return(repositories.ErrFriendshipNotFound)

	_, err := h.RequestMatch(context.Background(), "A", "B")
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestRequestMatchSelf(t *testing.T) {
	h := NewMatchHandshake(new(mocks.FriendshipRepositoryMock))

	_, err := h.RequestMatch(context.Background(), "A", "A")
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestStatusChecksBothOrderings(t *testing.T) {
	rows := []models.Friendship{
		{UserID1: "B", UserID2: "A", Status: models.MatchAccepted},
		{UserID1: "A", UserID2: "C", Status: models.MatchPending},
	}

	assert.Equal(t, models.MatchAccepted, StatusBetween(rows, "A", "B"))
	assert.Equal(t, models.MatchPending, StatusBetween(rows, "C", "A"))
	assert.Equal(t, models.MatchNone, StatusBetween(rows, "A", "D"))
}
