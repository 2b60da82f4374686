package store

import (
	"context"
	"database/sql"
	"fmt"

	"petwatch/internal/model"
)

// GetTicket returns a ticket by ID, or nil when absent.
func GetTicket(ctx context.Context, db *sql.DB, id int64) (*model.Ticket, error) {
	t := &model.Ticket{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, shot_id, status, created_at, updated_at
		 FROM tickets WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.ShotID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// GetTicketByShot returns the ticket referencing a shot ID, or nil when
// none exists. This is how camera sightings are matched to tickets.
func GetTicketByShot(ctx context.Context, db *sql.DB, shotID int64) (*model.Ticket, error) {
	t := &model.Ticket{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, shot_id, status, created_at, updated_at
		 FROM tickets WHERE shot_id = ?`, shotID,
	).Scan(&t.ID, &t.UserID, &t.ShotID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ticket by shot: %w", err)
	}
	return t, nil
}

// SetTicketStatus sets a ticket's status and returns the updated row,
// or nil when the ticket does not exist. Transitions are idempotent:
// setting the current status again is a no-op.
func SetTicketStatus(ctx context.Context, db *sql.DB, id int64, status string) (*model.Ticket, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("invalid ticket status: %q", status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating ticket status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return GetTicket(ctx, db, id)
}

// ListTickets returns tickets, newest first, optionally filtered by
// status.
func ListTickets(ctx context.Context, db *sql.DB, status string) ([]model.Ticket, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, user_id, shot_id, status, created_at, updated_at
			 FROM tickets WHERE status = ? ORDER BY created_at DESC, id DESC`, status,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, user_id, shot_id, status, created_at, updated_at
			 FROM tickets ORDER BY created_at DESC, id DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.ShotID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// CountTickets returns the number of tickets with the given status
// ("" counts all).
func CountTickets(ctx context.Context, db *sql.DB, status string) (int, error) {
	var n int
	var err error
	if status != "" {
		err = db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tickets WHERE status = ?`, status).Scan(&n)
	} else {
		err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting tickets: %w", err)
	}
	return n, nil
}
