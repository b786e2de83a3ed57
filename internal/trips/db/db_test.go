package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"trip-booking/internal/models"
	tripdb "trip-booking/internal/trips/db"
)

func setupTestDB(t *testing.T) *tripdb.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.Trip)(nil), (*models.TripDate)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &tripdb.DB{Bun: bunDB}
}

func TestGetTrip(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	trip := models.Trip{
		ID:        "trip-1",
		Title:     "Iceland Ring Road",
		Country:   "Iceland",
		BasePrice: decimal.NewFromInt(2450),
		Active:    true,
		CreatedAt: time.Now(),
	}
	_, err := store.Bun.NewInsert().Model(&trip).Exec(ctx)
	require.NoError(t, err)

	got, err := store.GetTrip(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Iceland Ring Road", got.Title)

	_, err = store.GetTrip(ctx, "trip-missing")
	assert.ErrorIs(t, err, tripdb.ErrTripNotFound)
}

func TestGetTripDatesOrderedByStartDate(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	now := time.Now()
	dates := []models.TripDate{
		{ID: "td-late", TripID: "trip-1", StartDate: now.AddDate(0, 2, 0), EndDate: now.AddDate(0, 2, 7), SpotsTotal: 10, Active: true},
		{ID: "td-early", TripID: "trip-1", StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 1, 7), SpotsTotal: 10, Active: true},
		{ID: "td-other", TripID: "trip-2", StartDate: now, EndDate: now.AddDate(0, 0, 7), SpotsTotal: 10, Active: true},
	}
	_, err := store.Bun.NewInsert().Model(&dates).Exec(ctx)
	require.NoError(t, err)

	got, err := store.GetTripDates(ctx, "trip-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "td-early", got[0].ID)
	assert.Equal(t, "td-late", got[1].ID)

	empty, err := store.GetTripDates(ctx, "trip-9")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
