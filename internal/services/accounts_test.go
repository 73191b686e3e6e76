package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibe-service/internal/auth"
	"vibe-service/internal/mocks"
	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
)

func TestSignupRejectsMinors(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	svc := NewAccountService(profiles, auth.NewTokenIssuer("secret"), new(mocks.ObjectStoreMock))

	_, _, err := svc.Signup(context.Background(), SignupInput{Email: "kid@vibe.app", Password: "secret1", Name: "Kid", Age: 17})
	assert.ErrorIs(t, err, ErrUnderAge)
	profiles.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupIssuesToken(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	tokens := auth.NewTokenIssuer("secret")
	svc := NewAccountService(profiles, tokens, new(mocks.ObjectStoreMock))

	profiles.On("CreateProfile", mock.Anything, "ana@vibe.app", mock.AnythingOfType("string"), "Ana", 24).
		Return(models.Profile{ID: "p1", Email: "ana@vibe.app", Name: "Ana", Age: 24}, nil)

	profile, token, err := svc.Signup(context.Background(), SignupInput{Email: " Ana@Vibe.app", Password: "secret1", Name: "Ana", Age: 24})
	require.NoError(t, err)
	assert.Equal(t, "p1", profile.ID)

	userID, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "p1", userID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	svc := NewAccountService(profiles, auth.NewTokenIssuer("secret"), new(mocks.ObjectStoreMock))

	profiles.On("CreateProfile", mock.Anything, "ana@vibe.app", mock.Anything, "Ana", 30).
		Return(models.Profile{}, repositories.ErrDuplicate)

	_, _, err := svc.Signup(context.Background(), SignupInput{Email: "ana@vibe.app", Password: "secret1", Name: "Ana", Age: 30})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginChecksPassword(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	svc := NewAccountService(profiles, auth.NewTokenIssuer("secret"), new(mocks.ObjectStoreMock))
	hash, err := auth.HashPassword("right-pass")
	require.NoError(t, err)

	profiles.On("GetProfileByEmail", mock.Anything, "ana@vibe.app").
		Return(models.Profile{ID: "p1", PasswordHash: hash}, nil)

	_, _, err = svc.Login(context.Background(), "ana@vibe.app", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	profile, token, err := svc.Login(context.Background(), "ana@vibe.app", "right-pass")
	require.NoError(t, err)
	assert.Equal(t, "p1", profile.ID)
	assert.NotEmpty(t, token)
}

func TestUpdateProfileRefreshesSession(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	svc := NewAccountService(profiles, auth.NewTokenIssuer("secret"), new(mocks.ObjectStoreMock))
	session := &Session{UserID: "p1", Profile: models.Profile{ID: "p1", Name: "Old"}, loader: profiles}
	bio := "surf"

	profiles.On("UpdateProfile", mock.Anything, "p1", "New", &bio, []string{"music"}).Return(nil)
	profiles.On("GetProfile", mock.Anything, "p1").Return(models.Profile{ID: "p1", Name: "New", Bio: &bio}, nil)

	err := svc.UpdateProfile(context.Background(), session, ProfileUpdate{Name: "New", Bio: &bio, Tags: []string{" music ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "New", session.Profile.Name)
}
