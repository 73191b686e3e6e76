package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"vibe-service/internal/auth"
	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
	"vibe-service/internal/storage"
)

const (
	minimumAge        = 18
	minPasswordLength = 6
)

// SignupInput carries a registration request.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Age      int
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	Name string
	Bio  *string
	Tags []string
}

// AccountService handles registration, login and profile edits.
type AccountService struct {
	profiles repositories.ProfileRepository
	tokens   *auth.TokenIssuer
	store    storage.ObjectStore
	now      func() int64
}

func NewAccountService(profiles repositories.ProfileRepository, tokens *auth.TokenIssuer, store storage.ObjectStore) *AccountService {
	return &AccountService{profiles: profiles, tokens: tokens, store: store, now: unixNano}
}

// Signup registers an adult user and returns their profile and a token.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (models.Profile, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return models.Profile{}, "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return models.Profile{}, "", fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if in.Name == "" {
		return models.Profile{}, "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Age < minimumAge {
		return models.Profile{}, "", ErrUnderAge
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("hash password: %w", err)
	}
	profile, err := s.profiles.CreateProfile(ctx, in.Email, hash, in.Name, in.Age)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Profile{}, "", ErrEmailTaken
		}
		return models.Profile{}, "", err
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("issue token: %w", err)
	}
	return profile, token, nil
}

// Login checks credentials and returns a fresh token.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.Profile, string, error) {
	profile, err := s.profiles.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return models.Profile{}, "", ErrInvalidCredentials
		}
		return models.Profile{}, "", err
	}
	if !auth.CheckPassword(profile.PasswordHash, password) {
		return models.Profile{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("issue token: %w", err)
	}
	return profile, token, nil
}

// UpdateProfile applies edits and refreshes the session snapshot.
func (s *AccountService) UpdateProfile(ctx context.Context, session *Session, in ProfileUpdate) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = session.Profile.Name
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if err := s.profiles.UpdateProfile(ctx, session.UserID, name, in.Bio, tags); err != nil {
		return err
	}
	return session.Refresh(ctx)
}

// SetAvatar uploads a profile picture and stores its public URL.
func (s *AccountService) SetAvatar(ctx context.Context, session *Session, avatar Photo) (string, error) {
	if len(avatar.Data) == 0 {
		return "", fmt.Errorf("%w: empty avatar", ErrInvalidInput)
	}
	contentType := avatar.ContentType
	if contentType == "" {
		contentType = photoContentTypeJP
	}
	path := fmt.Sprintf("%s/%d.jpg", session.UserID, s.now())
	url, err := s.store.Upload(ctx, storage.BucketAvatars, path, avatar.Data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.profiles.SetAvatar(ctx, session.UserID, url); err != nil {
		return "", err
	}
	if err := session.Refresh(ctx); err != nil {
		return "", err
	}
	return url, nil
}

func unixNano() int64 { return time.Now().UnixNano() }
