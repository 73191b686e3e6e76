package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"

	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
)

// ResolveParticipants computes the participant set of an event chat: the
// joining user, the event creator, every accepted host, and every member
// of the joining group whatever their membership status. The result has no
// duplicates; its order carries no meaning.
func ResolveParticipants(joiningUserID string, event models.Event, members []models.EventMember, groupMembers []models.GroupMember) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, 2+len(members)+len(groupMembers))
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	add(joiningUserID)
	add(event.CreatorID)
	for _, m := range members {
		if m.Status == models.AttendanceAccepted {
			add(m.UserID)
		}
	}
	for _, gm := range groupMembers {
		add(gm.UserID)
	}
	return ids
}

// ParticipantResolver fetches the snapshots ResolveParticipants works on.
type ParticipantResolver struct {
	events repositories.EventRepository
	groups repositories.GroupRepository
}

// NewParticipantResolver constructs a ParticipantResolver.
func NewParticipantResolver(events repositories.EventRepository, groups repositories.GroupRepository) *ParticipantResolver {
	return &ParticipantResolver{events: events, groups: groups}
}

// Resolve returns the participants for userID joining event, optionally as
// the group groupID. userID must belong to groupID. An unknown group is
// reported as repositories.ErrGroupNotFound; any other fetch failure yields
// ErrResolveParticipants.
func (r *ParticipantResolver) Resolve(ctx context.Context, userID string, event models.Event, groupID string) ([]string, error) {
	ctx, span := otel.Tracer("vibe-service/services").Start(ctx, "participants.resolve")
	defer span.End()

	members, err := r.events.ListMembers(ctx, event.ID, models.AttendanceAccepted)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: event members: %w", ErrResolveParticipants, err)
	}

	var groupMembers []models.GroupMember
	if groupID != "" {
		if _, err := r.groups.GetGroup(ctx, groupID); err != nil {
			span.RecordError(err)
			if errors.Is(err, repositories.ErrGroupNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: group: %w", ErrResolveParticipants, err)
		}
		ok, err := r.groups.IsMember(ctx, groupID, userID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: group membership: %w", ErrResolveParticipants, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: not a member of group %s", ErrForbidden, groupID)
		}
		groupMembers, err = r.groups.ListMembers(ctx, groupID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: group members: %w", ErrResolveParticipants, err)
		}
	}

	return ResolveParticipants(userID, event, members, groupMembers), nil
}
