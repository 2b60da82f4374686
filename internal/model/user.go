package model

import "time"

// User is an account that can sign in and own lost-pet reports and
// spotted-pet sightings.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
