package store

import (
	"context"
	"database/sql"
	"fmt"

	"petwatch/internal/model"
)

// CreateSpottedShot records a sighting and its ticket in one
// transaction. Every shot gets exactly one ticket, owned by the
// reporting user and starting unresolved; if either insert fails,
// neither row is kept.
func CreateSpottedShot(ctx context.Context, db *sql.DB, userID int64, description, mediaPath string) (*model.SpottedShot, *model.Ticket, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO spotted_shots (user_id, description, media_path) VALUES (?, ?, ?)`,
		userID, description, mediaPath,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating spotted shot: %w", err)
	}
	shotID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("getting shot id: %w", err)
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO tickets (user_id, shot_id, status) VALUES (?, ?, ?)`,
		userID, shotID, model.StatusUnresolved,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating ticket for shot: %w", err)
	}
	ticketID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("getting ticket id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing shot and ticket: %w", err)
	}

	shot, err := GetSpottedShot(ctx, db, shotID)
	if err != nil {
		return nil, nil, err
	}
	ticket, err := GetTicket(ctx, db, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return shot, ticket, nil
}

// GetSpottedShot returns a sighting by ID, or nil when absent.
func GetSpottedShot(ctx context.Context, db *sql.DB, id int64) (*model.SpottedShot, error) {
	s := &model.SpottedShot{}
	var description, mediaPath sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, description, media_path, created_at
		 FROM spotted_shots WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &description, &mediaPath, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting spotted shot: %w", err)
	}
	s.Description = description.String
	s.MediaPath = mediaPath.String
	return s, nil
}

// ListSpottedShots returns sightings, newest first, up to limit
// (0 means no limit).
func ListSpottedShots(ctx context.Context, db *sql.DB, limit int) ([]model.SpottedShot, error) {
	query := `SELECT id, user_id, description, media_path, created_at
	          FROM spotted_shots ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing spotted shots: %w", err)
	}
	defer rows.Close()

	var shots []model.SpottedShot
	for rows.Next() {
		var s model.SpottedShot
		var description, mediaPath sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &description, &mediaPath, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning spotted shot: %w", err)
		}
		s.Description = description.String
		s.MediaPath = mediaPath.String
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

// CreatePiShot records a camera-classified sighting. No ticket is
// created; the camera pipeline has no owning user to notify.
func CreatePiShot(ctx context.Context, db *sql.DB, description, mediaPath, mlLabel string, mlLabelIdx int) (*model.PiShot, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO pi_shots (description, media_path, ml_label, ml_label_idx) VALUES (?, ?, ?, ?)`,
		description, mediaPath, mlLabel, mlLabelIdx,
	)
	if err != nil {
		return nil, fmt.Errorf("creating pi shot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting pi shot id: %w", err)
	}

	return GetPiShot(ctx, db, id)
}

// GetPiShot returns a camera sighting by ID, or nil when absent.
func GetPiShot(ctx context.Context, db *sql.DB, id int64) (*model.PiShot, error) {
	s := &model.PiShot{}
	var description, mediaPath, mlLabel sql.NullString
	var mlLabelIdx sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT id, description, media_path, ml_label, ml_label_idx, created_at
		 FROM pi_shots WHERE id = ?`, id,
	).Scan(&s.ID, &description, &mediaPath, &mlLabel, &mlLabelIdx, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pi shot: %w", err)
	}
	s.Description = description.String
	s.MediaPath = mediaPath.String
	s.MLLabel = mlLabel.String
	s.MLLabelIdx = int(mlLabelIdx.Int64)
	return s, nil
}
