package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vibe-service/internal/models"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrMemberNotFound = errors.New("event member not found")
)

const eventColumns = `id, creator_id, title, description, latitude, longitude, privacy, radius_meters,
        photos, start_time, expires_at, created_at`

// nearbyEventsQuery clamps the haversine term to 1 so rounding near
// antipodal points cannot push ASIN out of its domain.
const nearbyEventsQuery = `SELECT ` + eventColumns + ` FROM (
            SELECT *, 6371 * 2 * ASIN(LEAST(1, SQRT(
                POWER(SIN(RADIANS(latitude - $1) / 2), 2) +
                COS(RADIANS($1)) * COS(RADIANS(latitude)) * POWER(SIN(RADIANS(longitude - $2) / 2), 2)
            ))) AS distance_km
            FROM events
            WHERE expires_at > $4
        ) e
        WHERE e.distance_km <= $3 AND (e.privacy = 'public' OR e.creator_id::text = $5)
        ORDER BY e.distance_km ASC`

// NewEvent carries the fields of an event to insert.
type NewEvent struct {
	CreatorID    string
	Title        string
	Description  string
	Latitude     float64
	Longitude    float64
	Privacy      models.Privacy
	RadiusMeters int
	Photos       []string
	StartTime    time.Time
	ExpiresAt    time.Time
}

// EventRepository abstracts event, host and attendee persistence.
type EventRepository interface {
	CreateEvent(ctx context.Context, e NewEvent) (models.Event, error)
	GetEvent(ctx context.Context, id string) (models.Event, error)
	ListWithinRadius(ctx context.Context, lat, lng, radiusKm float64, viewerID string, now time.Time) ([]models.Event, error)
	ActiveEventForCreator(ctx context.Context, creatorID string, now time.Time) (models.Event, error)
	SetPrivacy(ctx context.Context, id string, privacy models.Privacy) error
	DeleteEvent(ctx context.Context, id string) error

	ListMembers(ctx context.Context, eventID string, status models.AttendanceStatus) ([]models.EventMember, error)
	AddMember(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error
	SetMemberStatus(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error

	UpsertAttendee(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error
	ListAttendees(ctx context.Context, eventID string) ([]models.Attendee, error)
}

// EventRepo is a sqlx implementation of EventRepository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

// CreateEvent inserts an event and returns the stored row.
func (r *EventRepo) CreateEvent(ctx context.Context, e NewEvent) (models.Event, error) {
	photos := e.Photos
	if photos == nil {
		photos = []string{}
	}
	var event models.Event
	err := r.db.GetContext(ctx, &event, `INSERT INTO events
        (creator_id, title, description, latitude, longitude, privacy, radius_meters, photos, start_time, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+eventColumns,
		e.CreatorID, e.Title, e.Description, e.Latitude, e.Longitude, e.Privacy, e.RadiusMeters,
		pq.StringArray(photos), e.StartTime, e.ExpiresAt)
	return event, err
}

// GetEvent fetches a single event.
func (r *EventRepo) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return event, err
}

// ListWithinRadius returns unexpired events whose point lies within radiusKm
// of (lat, lng), using the haversine great-circle distance. Secret events are
// only returned to their creator.
func (r *EventRepo) ListWithinRadius(ctx context.Context, lat, lng, radiusKm float64, viewerID string, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events, nearbyEventsQuery, lat, lng, radiusKm, now, viewerID)
	return events, err
}

// ActiveEventForCreator returns the creator's most recent unexpired event.
func (r *EventRepo) ActiveEventForCreator(ctx context.Context, creatorID string, now time.Time) (models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events
        WHERE creator_id=$1 AND expires_at > $2 ORDER BY created_at DESC LIMIT 1`, creatorID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return event, err
}

// SetPrivacy updates the privacy flag.
func (r *EventRepo) SetPrivacy(ctx context.Context, id string, privacy models.Privacy) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET privacy=$2 WHERE id=$1`, id, privacy)
	return expectOneRow(res, err, ErrEventNotFound)
}

// DeleteEvent removes an event; chats, hosts and attendees cascade.
func (r *EventRepo) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	return expectOneRow(res, err, ErrEventNotFound)
}

// ListMembers returns the event's host rows with the given status.
func (r *EventRepo) ListMembers(ctx context.Context, eventID string, status models.AttendanceStatus) ([]models.EventMember, error) {
	var members []models.EventMember
	err := r.db.SelectContext(ctx, &members, `SELECT event_id, user_id, status, created_at FROM event_members
        WHERE event_id=$1 AND status=$2 ORDER BY created_at ASC`, eventID, status)
	return members, err
}

// AddMember inserts a host row; a second row for the same user is ErrDuplicate.
func (r *EventRepo) AddMember(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO event_members (event_id, user_id, status) VALUES ($1, $2, $3)`, eventID, userID, status)
	return translateInsertErr(err)
}

// SetMemberStatus changes an existing host row.
func (r *EventRepo) SetMemberStatus(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE event_members SET status=$3 WHERE event_id=$1 AND user_id=$2`, eventID, userID, status)
	return expectOneRow(res, err, ErrMemberNotFound)
}

// UpsertAttendee records attendance, keeping one row per (event, user).
func (r *EventRepo) UpsertAttendee(ctx context.Context, eventID, userID string, status models.AttendanceStatus) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO event_attendees (event_id, user_id, status) VALUES ($1, $2, $3)
        ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status`, eventID, userID, status)
	return err
}

// ListAttendees returns attendees joined with their public profile fields.
func (r *EventRepo) ListAttendees(ctx context.Context, eventID string) ([]models.Attendee, error) {
	var attendees []models.Attendee
	err := r.db.SelectContext(ctx, &attendees, `SELECT a.user_id, a.status, p.name, p.avatar_url, p.bio
        FROM event_attendees a INNER JOIN profiles p ON p.id = a.user_id
        WHERE a.event_id=$1 ORDER BY a.created_at ASC`, eventID)
	return attendees, err
}
