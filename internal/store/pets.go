package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"petwatch/internal/model"
)

// ErrImageCapExceeded is returned when an upload would push a report
// past model.MaxImagesPerPet photos.
var ErrImageCapExceeded = errors.New("image limit exceeded for this report")

// CreateLostPet creates a new lost-pet report.
func CreateLostPet(ctx context.Context, db *sql.DB, userID int64, name, description string) (*model.LostPet, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO lost_pets (user_id, name, description) VALUES (?, ?, ?)`,
		userID, name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost pet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting lost pet id: %w", err)
	}

	return GetLostPet(ctx, db, id)
}

// GetLostPet returns a report by ID with its image count, or nil when
// absent.
func GetLostPet(ctx context.Context, db *sql.DB, id int64) (*model.LostPet, error) {
	p := &model.LostPet{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT p.id, p.user_id, p.name, p.description, p.created_at,
		        (SELECT COUNT(*) FROM lost_pet_images i WHERE i.lost_pet_id = p.id)
		 FROM lost_pets p WHERE p.id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &description, &p.CreatedAt, &p.ImageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost pet: %w", err)
	}
	p.Description = description.String
	return p, nil
}

// ListLostPetsByUser returns a user's reports, newest first.
func ListLostPetsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.LostPet, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.name, p.description, p.created_at,
		        (SELECT COUNT(*) FROM lost_pet_images i WHERE i.lost_pet_id = p.id)
		 FROM lost_pets p WHERE p.user_id = ? ORDER BY p.created_at DESC, p.id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing lost pets: %w", err)
	}
	defer rows.Close()

	var pets []model.LostPet
	for rows.Next() {
		var p model.LostPet
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &description, &p.CreatedAt, &p.ImageCount); err != nil {
			return nil, fmt.Errorf("scanning lost pet: %w", err)
		}
		p.Description = description.String
		pets = append(pets, p)
	}
	return pets, rows.Err()
}

// DeleteLostPet removes a report. Image rows go with it via the foreign
// key cascade; the caller is responsible for removing stored files.
func DeleteLostPet(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM lost_pets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting lost pet: %w", err)
	}
	return nil
}

// AddPetImages records stored photo paths for a report. The cap check
// and the inserts run in one transaction, so concurrent uploads cannot
// push a report past the limit. Returns ErrImageCapExceeded without
// adding any rows when the batch would not fit.
func AddPetImages(ctx context.Context, db *sql.DB, petID int64, paths []string) ([]model.LostPetImage, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lost_pet_images WHERE lost_pet_id = ?`, petID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("counting pet images: %w", err)
	}

	if existing+len(paths) > model.MaxImagesPerPet {
		return nil, ErrImageCapExceeded
	}

	var images []model.LostPetImage
	for _, path := range paths {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO lost_pet_images (lost_pet_id, path) VALUES (?, ?)`,
			petID, path,
		)
		if err != nil {
			return nil, fmt.Errorf("adding pet image: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting pet image id: %w", err)
		}
		images = append(images, model.LostPetImage{ID: id, LostPetID: petID, Path: path})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing pet images: %w", err)
	}
	return images, nil
}

// ListPetImages returns a report's photos in upload order.
func ListPetImages(ctx context.Context, db *sql.DB, petID int64) ([]model.LostPetImage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, lost_pet_id, path, created_at
		 FROM lost_pet_images WHERE lost_pet_id = ? ORDER BY id`, petID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pet images: %w", err)
	}
	defer rows.Close()

	var images []model.LostPetImage
	for rows.Next() {
		var img model.LostPetImage
		if err := rows.Scan(&img.ID, &img.LostPetID, &img.Path, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pet image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// GetPetImage returns one photo row by ID, or nil when absent.
func GetPetImage(ctx context.Context, db *sql.DB, id int64) (*model.LostPetImage, error) {
	img := &model.LostPetImage{}
	err := db.QueryRowContext(ctx,
		`SELECT id, lost_pet_id, path, created_at FROM lost_pet_images WHERE id = ?`, id,
	).Scan(&img.ID, &img.LostPetID, &img.Path, &img.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pet image: %w", err)
	}
	return img, nil
}
