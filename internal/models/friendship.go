package models

import "time"

// MatchStatus is the state of the relationship between two users.
type MatchStatus string

const (
	MatchNone     MatchStatus = "none"
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
)

// Friendship is a Vibrar request row. Once accepted it is symmetric.
type Friendship struct {
	ID        string      `db:"id" json:"id"`
	UserID1   string      `db:"user_id_1" json:"user_id_1"`
	UserID2   string      `db:"user_id_2" json:"user_id_2"`
	Status    MatchStatus `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Involves reports whether the row relates a and b, in either order.
func (f Friendship) Involves(a, b string) bool {
	return (f.UserID1 == a && f.UserID2 == b) || (f.UserID1 == b && f.UserID2 == a)
}

// Other returns the counterpart of userID in the row.
func (f Friendship) Other(userID string) string {
	if f.UserID1 == userID {
		return f.UserID2
	}
	return f.UserID1
}
