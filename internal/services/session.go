package services

import (
	"context"
	"fmt"

	"vibe-service/internal/models"
)

// ProfileLoader loads the profile behind a session.
type ProfileLoader interface {
	GetProfile(ctx context.Context, id string) (models.Profile, error)
}

// Session is the authenticated actor of one request together with a
// snapshot of their profile. Operations that change the profile call
// Refresh; nothing outside the session caches profile state.
type Session struct {
	UserID  string
	Profile models.Profile

	loader ProfileLoader
}

// NewSession loads the actor's profile.
func NewSession(ctx context.Context, loader ProfileLoader, userID string) (*Session, error) {
	s := &Session{UserID: userID, loader: loader}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh reloads the profile snapshot.
func (s *Session) Refresh(ctx context.Context) error {
	profile, err := s.loader.GetProfile(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	s.Profile = profile
	return nil
}
