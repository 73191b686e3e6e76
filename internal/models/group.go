package models

import "time"

// Group is a named collection of users ("squad") with one admin.
type Group struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	AdminID     string    `db:"admin_id" json:"admin_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GroupMember records a user's membership in a group.
type GroupMember struct {
	GroupID   string           `db:"group_id" json:"group_id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
