package db_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trip-booking/internal/capacity"
	capdb "trip-booking/internal/capacity/db"
	"trip-booking/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*capdb.DB, *bun.DB) {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	// A second pooled connection would see a different empty :memory: db.
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Trip)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.TripDate)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &capdb.DB{Bun: bunDB}, bunDB
}

func seedTripDate(t *testing.T, bunDB *bun.DB, id string, total, booked int) {
	ctx := context.Background()
	trip := models.Trip{
		ID:        "trip-rome",
		Title:     "Rome Long Weekend",
		Country:   "it",
		BasePrice: decimal.NewFromInt(450),
		Active:    true,
		CreatedAt: time.Now(),
	}
	_, err := bunDB.NewInsert().Model(&trip).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	require.NoError(t, err)

	tripDate := models.TripDate{
		ID:          id,
		TripID:      trip.ID,
		StartDate:   time.Now().AddDate(0, 1, 0),
		EndDate:     time.Now().AddDate(0, 1, 4),
		SpotsTotal:  total,
		SpotsBooked: booked,
		Active:      true,
	}
	_, err = bunDB.NewInsert().Model(&tripDate).Exec(ctx)
	require.NoError(t, err)
}

func TestReserveSpots(t *testing.T) {
	store, bunDB := setupTestDB(t)
	seedTripDate(t, bunDB, "td-1", 10, 8)

	ctx := context.Background()

	booked, err := store.ReserveSpots(ctx, "td-1", 2)
	assert.NoError(t, err)
	assert.Equal(t, 10, booked)

	// Departure is now full; the guarded update must refuse further seats
	// without mutating anything.
	_, err = store.ReserveSpots(ctx, "td-1", 1)
	assert.ErrorIs(t, err, capacity.ErrInsufficientCapacity)

	tripDate, err := store.GetTripDate(ctx, "td-1")
	require.NoError(t, err)
	assert.Equal(t, 10, tripDate.SpotsBooked)
	assert.Equal(t, 0, tripDate.AvailableSpots())
}

func TestReserveSpotsUnknownTripDate(t *testing.T) {
	store, _ := setupTestDB(t)

	_, err := store.ReserveSpots(context.Background(), "td-missing", 1)
	assert.ErrorIs(t, err, capacity.ErrTripDateNotFound)
}

func TestReserveSpotsConcurrent(t *testing.T) {
	store, bunDB := setupTestDB(t)
	seedTripDate(t, bunDB, "td-rush", 10, 0)

	ctx := context.Background()
	numRequests := 50

	var successes, soldOut, unexpected int32
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func() {
			defer wg.Done()
			_, err := store.ReserveSpots(ctx, "td-rush", 1)
			switch {
			case err == nil:
				atomic.AddInt32(&successes, 1)
			case err == capacity.ErrInsufficientCapacity:
				atomic.AddInt32(&soldOut, 1)
			default:
				atomic.AddInt32(&unexpected, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), successes, "exactly the available spots should be won")
	assert.Equal(t, int32(40), soldOut)
	assert.Equal(t, int32(0), unexpected)

	tripDate, err := store.GetTripDate(ctx, "td-rush")
	require.NoError(t, err)
	assert.Equal(t, 10, tripDate.SpotsBooked, "spots_booked must never exceed spots_total")
}

func TestReserveSpotsConcurrentPartialFit(t *testing.T) {
	// 10 total, 8 booked; concurrent requests for 2 and 3 seats. Whichever
	// wins the atomic update, the loser must see insufficient capacity and
	// the final count must land exactly on 10.
	store, bunDB := setupTestDB(t)
	seedTripDate(t, bunDB, "td-tight", 10, 8)

	ctx := context.Background()

	var successes, soldOut int32
	var wg sync.WaitGroup
	for _, count := range []int{2, 3} {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.ReserveSpots(ctx, "td-tight", n)
			if err == nil {
				atomic.AddInt32(&successes, 1)
			} else if err == capacity.ErrInsufficientCapacity {
				atomic.AddInt32(&soldOut, 1)
			}
		}(count)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
	assert.Equal(t, int32(1), soldOut)

	tripDate, err := store.GetTripDate(ctx, "td-tight")
	require.NoError(t, err)
	assert.Equal(t, 10, tripDate.SpotsBooked)
}

func TestReleaseSpots(t *testing.T) {
	store, bunDB := setupTestDB(t)
	seedTripDate(t, bunDB, "td-2", 10, 4)

	ctx := context.Background()

	require.NoError(t, store.ReleaseSpots(ctx, "td-2", 3))
	tripDate, err := store.GetTripDate(ctx, "td-2")
	require.NoError(t, err)
	assert.Equal(t, 1, tripDate.SpotsBooked)

	// Releasing more than is booked clamps at zero instead of going negative.
	require.NoError(t, store.ReleaseSpots(ctx, "td-2", 5))
	tripDate, err = store.GetTripDate(ctx, "td-2")
	require.NoError(t, err)
	assert.Equal(t, 0, tripDate.SpotsBooked)

	assert.ErrorIs(t, store.ReleaseSpots(ctx, "td-missing", 1), capacity.ErrTripDateNotFound)
}
