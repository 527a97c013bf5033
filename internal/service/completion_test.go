package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trek/internal/domain"
	"trek/internal/service"
)

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) Release(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func TestSweepOnce_CompletesDepartedTrips(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	departed := f.approvedTrip(t, 5)

	req := tripRequest(5)
	req.DepartureDate = start.AddDate(0, 2, 0)
	later, err := f.trips.CreateDraft(f.ctx, organizer, req)
	require.NoError(t, err)
	_, err = f.trips.SubmitForApproval(f.ctx, later.ID, organizer)
	require.NoError(t, err)
	_, err = f.trips.Approve(f.ctx, later.ID, admin)
	require.NoError(t, err)

	locker := &mockLocker{}
	locker.On("Acquire", mock.Anything, "completion-sweep", time.Minute).Return(true, nil)
	locker.On("Release", mock.Anything, "completion-sweep").Return(nil)

	sweeper := service.NewCompletionSweeper(f.trips, locker, nil, time.Minute)
	f.clock.Set(departed.DepartureDate.Add(time.Hour))

	n, err := sweeper.SweepOnce(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.trips.Get(f.ctx, departed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusCompleted, got.Status)

	got, err = f.trips.Get(f.ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusApproved, got.Status)

	n, err = sweeper.SweepOnce(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	locker.AssertExpectations(t)
}

func TestSweepOnce_SkipsWithoutLock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 5)
	f.clock.Set(trip.DepartureDate.Add(time.Hour))

	locker := &mockLocker{}
	locker.On("Acquire", mock.Anything, "completion-sweep", time.Minute).Return(false, nil)

	n, err := service.NewCompletionSweeper(f.trips, locker, nil, time.Minute).SweepOnce(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)

	locker = &mockLocker{}
	locker.On("Acquire", mock.Anything, "completion-sweep", time.Minute).Return(false, errors.New("redis down"))
	_, err = service.NewCompletionSweeper(f.trips, locker, nil, time.Minute).SweepOnce(f.ctx)
	assert.Error(t, err)
}
