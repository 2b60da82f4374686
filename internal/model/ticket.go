package model

import "time"

// Ticket statuses. Stored as a single character.
const (
	StatusUnresolved = "U"
	StatusResolved   = "R"
)

// Ticket tracks the matching decision for a spotted shot: whether the
// sighting has been confirmed against a lost-pet report. Tickets are
// created only alongside their shot, never by a client directly.
type Ticket struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ShotID    int64     `json:"shot_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s string) bool {
	return s == StatusUnresolved || s == StatusResolved
}

// StatusName returns a human-readable name for a ticket status.
func StatusName(s string) string {
	switch s {
	case StatusUnresolved:
		return "Unresolved"
	case StatusResolved:
		return "Resolved"
	default:
		return s
	}
}
