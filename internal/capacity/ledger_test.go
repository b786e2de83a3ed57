package capacity_test

import (
	"context"
	"testing"

	"trip-booking/internal/capacity"
	"trip-booking/internal/logger"
	"trip-booking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of the capacity.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ReserveSpots(ctx context.Context, tripDateID string, count int) (int, error) {
	args := m.Called(ctx, tripDateID, count)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ReleaseSpots(ctx context.Context, tripDateID string, count int) error {
	args := m.Called(ctx, tripDateID, count)
	return args.Error(0)
}

func (m *MockStore) GetTripDate(ctx context.Context, tripDateID string) (*models.TripDate, error) {
	args := m.Called(ctx, tripDateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripDate), args.Error(1)
}

func TestReserveRejectsNonPositiveCount(t *testing.T) {
	mockStore := new(MockStore)
	ledger := capacity.NewLedger(mockStore, logger.NewTestLogger())

	for _, count := range []int{0, -1, -10} {
		_, err := ledger.Reserve(context.Background(), "td-1", count)
		assert.ErrorIs(t, err, capacity.ErrInvalidArgument)
	}

	// Validation failures must never reach storage.
	mockStore.AssertNotCalled(t, "ReserveSpots", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveReturnsUpdatedCount(t *testing.T) {
	mockStore := new(MockStore)
	ledger := capacity.NewLedger(mockStore, logger.NewTestLogger())

	mockStore.On("ReserveSpots", mock.Anything, "td-1", 2).Return(7, nil)

	booked, err := ledger.Reserve(context.Background(), "td-1", 2)
	assert.NoError(t, err)
	assert.Equal(t, 7, booked)
	mockStore.AssertExpectations(t)
}

func TestReserveSurfacesCapacityConflict(t *testing.T) {
	mockStore := new(MockStore)
	ledger := capacity.NewLedger(mockStore, logger.NewTestLogger())

	mockStore.On("ReserveSpots", mock.Anything, "td-1", 4).Return(0, capacity.ErrInsufficientCapacity)

	_, err := ledger.Reserve(context.Background(), "td-1", 4)
	assert.ErrorIs(t, err, capacity.ErrInsufficientCapacity)
}

func TestReleaseRejectsNonPositiveCount(t *testing.T) {
	mockStore := new(MockStore)
	ledger := capacity.NewLedger(mockStore, logger.NewTestLogger())

	err := ledger.Release(context.Background(), "td-1", 0)
	assert.ErrorIs(t, err, capacity.ErrInvalidArgument)
	mockStore.AssertNotCalled(t, "ReleaseSpots", mock.Anything, mock.Anything, mock.Anything)
}

func TestReleaseDelegatesToStore(t *testing.T) {
	mockStore := new(MockStore)
	ledger := capacity.NewLedger(mockStore, logger.NewTestLogger())

	mockStore.On("ReleaseSpots", mock.Anything, "td-1", 3).Return(nil)

	assert.NoError(t, ledger.Release(context.Background(), "td-1", 3))
	mockStore.AssertExpectations(t)
}
