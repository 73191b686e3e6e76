package models

import (
	"time"

	"github.com/lib/pq"
)

// SubscriptionType is the profile's billing tier.
type SubscriptionType string

const (
	SubscriptionFree    SubscriptionType = "free"
	SubscriptionPremium SubscriptionType = "premium"
)

// Profile is the identity record of a user.
type Profile struct {
	ID                string           `db:"id" json:"id"`
	Email             string           `db:"email" json:"email"`
	PasswordHash      string           `db:"password_hash" json:"-"`
	Name              string           `db:"name" json:"name"`
	Age               int              `db:"age" json:"age"`
	AvatarURL         *string          `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio               *string          `db:"bio" json:"bio,omitempty"`
	Tags              pq.StringArray   `db:"tags" json:"tags"`
	IsVerified        bool             `db:"is_verified" json:"is_verified"`
	SubscriptionType  SubscriptionType `db:"subscription_type" json:"subscription_type"`
	ChatsStartedToday int              `db:"chats_started_today" json:"chats_started_today"`
	ChatLimitReset    time.Time        `db:"chat_limit_reset" json:"chat_limit_reset"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
}

// ChatsStartedAt returns the chat counter as seen at now: once the reset
// boundary has passed a fresh day starts at zero.
func (p Profile) ChatsStartedAt(now time.Time) int {
	if !now.Before(p.ChatLimitReset) {
		return 0
	}
	return p.ChatsStartedToday
}
