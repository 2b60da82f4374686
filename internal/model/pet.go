package model

import "time"

// MaxImagesPerPet caps the photo gallery of a single lost-pet report.
const MaxImagesPerPet = 50

// LostPet is a report of a missing animal, owned by one user.
type LostPet struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageCount  int       `json:"image_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// LostPetImage is one stored photo belonging to a lost-pet report.
// Rows are removed together with their report.
type LostPetImage struct {
	ID        int64     `json:"id"`
	LostPetID int64     `json:"lost_pet_id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
