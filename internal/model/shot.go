package model

import "time"

// SpottedShot is a sighting submitted by a signed-in user. Creating one
// always creates its ticket in the same transaction.
type SpottedShot struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description,omitempty"`
	MediaPath   string    `json:"media_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PiShot is a sighting captured by the camera pipeline. It carries the
// classifier's label instead of a user-authored description and has no
// owning user, so no ticket is created for it.
type PiShot struct {
	ID          int64     `json:"id"`
	Description string    `json:"description,omitempty"`
	MediaPath   string    `json:"media_path,omitempty"`
	MLLabel     string    `json:"ml_label,omitempty"`
	MLLabelIdx  int       `json:"ml_label_idx"`
	CreatedAt   time.Time `json:"created_at"`
}
