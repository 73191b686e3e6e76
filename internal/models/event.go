package models

import (
	"time"

	"github.com/lib/pq"
)

// Privacy controls whether an event is discoverable by others.
type Privacy string

const (
	PrivacyPublic Privacy = "public"
	PrivacySecret Privacy = "secret"
)

// AttendanceStatus is the status of an event member or attendee row.
type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "pending"
	AttendanceAccepted AttendanceStatus = "accepted"
	AttendanceGoing    AttendanceStatus = "going"
)

// Event is a time-boxed local gathering ("vibe").
type Event struct {
	ID           string         `db:"id" json:"id"`
	CreatorID    string         `db:"creator_id" json:"creator_id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	Latitude     float64        `db:"latitude" json:"latitude"`
	Longitude    float64        `db:"longitude" json:"longitude"`
	Privacy      Privacy        `db:"privacy" json:"privacy"`
	RadiusMeters int            `db:"radius_meters" json:"radius_meters"`
	Photos       pq.StringArray `db:"photos" json:"photos"`
	StartTime    time.Time      `db:"start_time" json:"start_time"`
	ExpiresAt    time.Time      `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Expired reports whether the event is read-only for chat purposes at now.
func (e Event) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// EventMember links a host or attendee to an event.
type EventMember struct {
	EventID   string           `db:"event_id" json:"event_id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// Attendee is an attendee row joined with the viewer's relationship to them.
type Attendee struct {
	UserID           string           `db:"user_id" json:"user_id"`
	Status           AttendanceStatus `db:"status" json:"status"`
	Name             string           `db:"name" json:"name"`
	AvatarURL        *string          `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio              *string          `db:"bio" json:"bio,omitempty"`
	FriendshipStatus MatchStatus      `db:"-" json:"friendship_status"`
}
