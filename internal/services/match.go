package services

import (
	"context"
	"errors"
	"fmt"

	"vibe-service/internal/models"
	"vibe-service/internal/observability"
	"vibe-service/internal/repositories"
)

// MatchOutcome is the result of a "Vibrar" request.
type MatchOutcome string

const (
	OutcomeMatch       MatchOutcome = "match"
	OutcomeRequestSent MatchOutcome = "request_sent"
)

// MatchHandshake implements the mutual-interest handshake: the first
// request is stored pending, the reverse request accepts it.
type MatchHandshake struct {
	friendships repositories.FriendshipRepository
}

func NewMatchHandshake(friendships repositories.FriendshipRepository) *MatchHandshake {
	return &MatchHandshake{friendships: friendships}
}

// RequestMatch records that requesterID vibes with targetID.
func (h *MatchHandshake) RequestMatch(ctx context.Context, requesterID, targetID string) (MatchOutcome, error) {
	if requesterID == targetID {
		return "", ErrSelfMatch
	}

	reverse, err := h.friendships.FindPending(ctx, targetID, requesterID)
	switch {
	case err == nil:
		if err := h.friendships.AcceptPending(ctx, reverse.ID); err != nil {
			if errors.Is(err, repositories.ErrFriendshipNotFound) {
				// accepted by a concurrent request
				return "", ErrAlreadyConnected
			}
			return "", fmt.Errorf("accept pending request: %w", err)
		}
		observability.IncMatchOutcome(string(OutcomeMatch))
		publishDomainEvent(ctx, "match.accepted", "match_accepted", map[string]interface{}{
			"friendship_id": reverse.ID,
			"user_ids":      []string{targetID, requesterID},
		})
		return OutcomeMatch, nil
	case errors.Is(err, repositories.ErrFriendshipNotFound):
	default:
		return "", fmt.Errorf("find pending request: %w", err)
	}

	created, err := h.friendships.CreateRequest(ctx, requesterID, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", ErrAlreadyConnected
		}
		return "", fmt.Errorf("create request: %w", err)
	}
	observability.IncMatchOutcome(string(OutcomeRequestSent))
	publishDomainEvent(ctx, "match.requested", "match_requested", map[string]interface{}{
		"friendship_id": created.ID,
		"from":          requesterID,
		"to":            targetID,
	})
	return OutcomeRequestSent, nil
}

// Friendships lists every relation userID takes part in.
func (h *MatchHandshake) Friendships(ctx context.Context, userID string) ([]models.Friendship, error) {
	return h.friendships.ListForUser(ctx, userID)
}

// Status reports the relation between a and b regardless of who asked first.
func (h *MatchHandshake) Status(ctx context.Context, a, b string) (models.MatchStatus, error) {
	rows, err := h.friendships.ListForUser(ctx, a)
	if err != nil {
		return models.MatchNone, err
	}
	return StatusBetween(rows, a, b), nil
}

// StatusBetween finds the relation between a and b within rows.
func StatusBetween(rows []models.Friendship, a, b string) models.MatchStatus {
	for _, f := range rows {
		if f.Involves(a, b) {
			return f.Status
		}
	}
	return models.MatchNone
}
