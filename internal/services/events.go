package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vibe-service/internal/models"
	"vibe-service/internal/repositories"
	"vibe-service/internal/storage"
)

const (
	DefaultRadiusKm    = 10
	eventRadiusMeters  = 500
	maxEventPhotos     = 3
	photoContentTypeJP = "image/jpeg"
)

var allowedRadiiKm = map[float64]bool{10: true, 50: true}

// Photo is an uploaded image.
type Photo struct {
	Data        []byte
	ContentType string
}

// CreateEventInput carries a new event as submitted by its creator.
type CreateEventInput struct {
	Title       string
	Description string
	Latitude    *float64
	Longitude   *float64
	Privacy     models.Privacy
	StartTime   time.Time
	Photos      []Photo
}

// EventService handles event lifecycle, hosts and attendance.
type EventService struct {
	events      repositories.EventRepository
	friendships repositories.FriendshipRepository
	store       storage.ObjectStore
	ttl         time.Duration
	now         func() time.Time
}

func NewEventService(events repositories.EventRepository, friendships repositories.FriendshipRepository, store storage.ObjectStore, ttl time.Duration) *EventService {
	return &EventService{
		events:      events,
		friendships: friendships,
		store:       store,
		ttl:         ttl,
		now:         time.Now,
	}
}

// WithClock replaces the service's time source.
func (s *EventService) WithClock(now func() time.Time) *EventService {
	s.now = now
	return s
}

// Create uploads the event photos and stores the event. The event expires
// ttl after its start.
func (s *EventService) Create(ctx context.Context, creatorID string, in CreateEventInput) (models.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.Event{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return models.Event{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if in.Latitude == nil || in.Longitude == nil {
		return models.Event{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if len(in.Photos) > maxEventPhotos {
		return models.Event{}, fmt.Errorf("%w: at most %d photos", ErrInvalidInput, maxEventPhotos)
	}
	switch in.Privacy {
	case "":
		in.Privacy = models.PrivacyPublic
	case models.PrivacyPublic, models.PrivacySecret:
	default:
		return models.Event{}, fmt.Errorf("%w: unknown privacy %q", ErrInvalidInput, in.Privacy)
	}
	if in.StartTime.IsZero() {
		in.StartTime = s.now()
	}

	photos := make([]string, 0, len(in.Photos))
	stamp := s.now().UnixNano()
	for i, p := range in.Photos {
		contentType := p.ContentType
		if contentType == "" {
			contentType = photoContentTypeJP
		}
		path := fmt.Sprintf("%s/%d_%d.jpg", creatorID, stamp, i)
		url, err := s.store.Upload(ctx, storage.BucketEventPhotos, path, p.Data, contentType)
		if err != nil {
			return models.Event{}, fmt.Errorf("upload photo %d: %w", i, err)
		}
		photos = append(photos, url)
	}

	event, err := s.events.CreateEvent(ctx, repositories.NewEvent{
		CreatorID:    creatorID,
		Title:        in.Title,
		Description:  in.Description,
		Latitude:     *in.Latitude,
		Longitude:    *in.Longitude,
		Privacy:      in.Privacy,
		RadiusMeters: eventRadiusMeters,
		Photos:       photos,
		StartTime:    in.StartTime,
		ExpiresAt:    in.StartTime.Add(s.ttl),
	})
	if err != nil {
		return models.Event{}, err
	}

	publishDomainEvent(ctx, "event.created", "event_created", map[string]interface{}{
		"event_id":   event.ID,
		"creator_id": creatorID,
		"privacy":    string(event.Privacy),
	})
	return event, nil
}

// Nearby lists unexpired events within radiusKm of the viewer. Secret
// events are only returned to their creator.
func (s *EventService) Nearby(ctx context.Context, viewerID string, lat, lng, radiusKm float64) ([]models.Event, error) {
	if radiusKm == 0 {
		radiusKm = DefaultRadiusKm
	}
	if !allowedRadiiKm[radiusKm] {
		return nil, fmt.Errorf("%w: radius must be 10 or 50 km", ErrInvalidInput)
	}
	return s.events.ListWithinRadius(ctx, lat, lng, radiusKm, viewerID, s.now())
}

// Get returns an event. Secret events are only visible to their creator.
func (s *EventService) Get(ctx context.Context, viewerID, eventID string) (models.Event, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if event.Privacy == models.PrivacySecret && event.CreatorID != viewerID {
		return models.Event{}, repositories.ErrEventNotFound
	}
	return event, nil
}

// Active returns the creator's unexpired event, if any.
func (s *EventService) Active(ctx context.Context, creatorID string) (models.Event, error) {
	return s.events.ActiveEventForCreator(ctx, creatorID, s.now())
}

// TogglePrivacy flips an owned event between public and secret.
func (s *EventService) TogglePrivacy(ctx context.Context, userID, eventID string) (models.Event, error) {
	event, err := s.owned(ctx, userID, eventID)
	if err != nil {
		return models.Event{}, err
	}
	next := models.PrivacySecret
	if event.Privacy == models.PrivacySecret {
		next = models.PrivacyPublic
	}
	if err := s.events.SetPrivacy(ctx, eventID, next); err != nil {
		return models.Event{}, err
	}
	event.Privacy = next
	return event, nil
}

// Delete removes an owned event together with its chats.
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	if _, err := s.owned(ctx, userID, eventID); err != nil {
		return err
	}
	return s.events.DeleteEvent(ctx, eventID)
}

// Attend marks userID as going to an unexpired event.
func (s *EventService) Attend(ctx context.Context, userID, eventID string) error {
	event, err := s.Get(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if event.Expired(s.now()) {
		return ErrEventExpired
	}
	return s.events.UpsertAttendee(ctx, eventID, userID, models.AttendanceGoing)
}

// Attendees lists an event's attendees annotated with the viewer's match
// status towards each of them.
func (s *EventService) Attendees(ctx context.Context, viewerID, eventID string) ([]models.Attendee, error) {
	if _, err := s.Get(ctx, viewerID, eventID); err != nil {
		return nil, err
	}
	attendees, err := s.events.ListAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	relations, err := s.friendships.ListForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	for i := range attendees {
		attendees[i].FriendshipStatus = StatusBetween(relations, viewerID, attendees[i].UserID)
	}
	return attendees, nil
}

// InviteHost adds userID as a pending host of an owned event.
func (s *EventService) InviteHost(ctx context.Context, ownerID, eventID, userID string) error {
	if _, err := s.owned(ctx, ownerID, eventID); err != nil {
		return err
	}
	if userID == ownerID {
		return fmt.Errorf("%w: creator is already the host", ErrInvalidInput)
	}
	err := s.events.AddMember(ctx, eventID, userID, models.AttendancePending)
	if errors.Is(err, repositories.ErrDuplicate) {
		return ErrAlreadyConnected
	}
	return err
}

// AcceptHost accepts userID's pending host invitation.
func (s *EventService) AcceptHost(ctx context.Context, userID, eventID string) error {
	return s.events.SetMemberStatus(ctx, eventID, userID, models.AttendanceAccepted)
}

// Hosts lists an event's members with the given status; an empty status
// lists accepted hosts.
func (s *EventService) Hosts(ctx context.Context, eventID string, status models.AttendanceStatus) ([]models.EventMember, error) {
	if status == "" {
		status = models.AttendanceAccepted
	}
	return s.events.ListMembers(ctx, eventID, status)
}

func (s *EventService) owned(ctx context.Context, userID, eventID string) (models.Event, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if event.CreatorID != userID {
		return models.Event{}, ErrForbidden
	}
	return event, nil
}
