package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petwatch/internal/db"
	"petwatch/internal/model"
)

func createTestTicket(t *testing.T, ctx context.Context, database *sql.DB) *model.Ticket {
	t.Helper()
	user := createTestUser(t, ctx, database, "spotter")
	_, ticket, err := CreateSpottedShot(ctx, database, user.ID, "sighting", "")
	require.NoError(t, err)
	return ticket
}

func TestSetTicketStatusTransitions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ticket := createTestTicket(t, ctx, database)

	// approve, reject, approve: last transition wins.
	got, err := SetTicketStatus(ctx, database, ticket.ID, model.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Status)

	got, err = SetTicketStatus(ctx, database, ticket.ID, model.StatusUnresolved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnresolved, got.Status)

	got, err = SetTicketStatus(ctx, database, ticket.ID, model.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Status)
}

func TestSetTicketStatusIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ticket := createTestTicket(t, ctx, database)

	first, err := SetTicketStatus(ctx, database, ticket.ID, model.StatusResolved)
	require.NoError(t, err)
	second, err := SetTicketStatus(ctx, database, ticket.ID, model.StatusResolved)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
}

func TestSetTicketStatusMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := SetTicketStatus(context.Background(), database, 9999, model.StatusResolved)
	require.NoError(t, err)
	assert.Nil(t, got, "missing ticket should return nil, not error")
}

func TestSetTicketStatusInvalid(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ticket := createTestTicket(t, ctx, database)

	_, err := SetTicketStatus(ctx, database, ticket.ID, "X")
	assert.Error(t, err)
}

func TestGetTicketByShot(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ticket := createTestTicket(t, ctx, database)

	got, err := GetTicketByShot(ctx, database, ticket.ShotID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ticket.ID, got.ID)

	missing, err := GetTicketByShot(ctx, database, ticket.ShotID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListTicketsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, ctx, database, "spotter")

	_, t1, err := CreateSpottedShot(ctx, database, user.ID, "first", "")
	require.NoError(t, err)
	_, _, err = CreateSpottedShot(ctx, database, user.ID, "second", "")
	require.NoError(t, err)

	_, err = SetTicketStatus(ctx, database, t1.ID, model.StatusResolved)
	require.NoError(t, err)

	resolved, err := ListTickets(ctx, database, model.StatusResolved)
	require.NoError(t, err)
	assert.Len(t, resolved, 1)

	all, err := ListTickets(ctx, database, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
