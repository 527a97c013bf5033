package service_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trek/internal/domain"
	"trek/internal/service"
)

func TestRegister_Preconditions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.makePorter(t, organizer)

	draft, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)
	_, err = f.regs.Register(f.ctx, draft.ID, participant)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.regs.Register(f.ctx, "missing", participant)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	trip := f.approvedTrip(t, 5)

	_, err = f.regs.Register(f.ctx, trip.ID, organizer)
	assert.ErrorIs(t, err, service.ErrOrganizerCannotRegister)

	reg, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusPending, reg.Status)

	_, err = f.regs.Register(f.ctx, trip.ID, participant)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestRegister_DeadlineIsInclusive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 5)

	f.clock.Set(trip.RegistrationDeadline)
	_, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)

	f.clock.Set(trip.RegistrationDeadline.Add(time.Second))
	_, err = f.regs.Register(f.ctx, trip.ID, other)
	assert.ErrorIs(t, err, domain.ErrDeadlinePassed)
}

func TestRegister_FullTripFailsCapacityExceeded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 1)

	reg, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)
	_, err = f.regs.Approve(f.ctx, reg.ID, organizer)
	require.NoError(t, err)

	spots, err := f.regs.SpotsRemaining(f.ctx, trip.ID)
	require.NoError(t, err)
	assert.Zero(t, spots)

	_, err = f.regs.Register(f.ctx, trip.ID, other)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestApproveRegistration_EnforcesCapacity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 1)

	first, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)
	second, err := f.regs.Register(f.ctx, trip.ID, other)
	require.NoError(t, err, "registrations are accepted optimistically")

	_, err = f.regs.Approve(f.ctx, first.ID, organizer)
	require.NoError(t, err)

	_, err = f.regs.Approve(f.ctx, second.ID, organizer)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	pending, err := f.regs.ListForTrip(f.ctx, trip.ID, organizer, domain.RegistrationStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestApproveRegistration_Authorization(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 3)

	reg, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)

	_, err = f.regs.Approve(f.ctx, reg.ID, other)
	assert.ErrorIs(t, err, service.ErrNotOrganizer)

	_, err = f.regs.Approve(f.ctx, reg.ID, admin)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = f.regs.Approve(f.ctx, "missing", organizer)
	assert.ErrorIs(t, err, service.ErrRegistrationNotFound)
}

func TestRejectRegistration_IsTerminal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 3)

	reg, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)

	reg, err = f.regs.Reject(f.ctx, reg.ID, organizer, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusRejected, reg.Status)

	_, err = f.regs.Approve(f.ctx, reg.ID, organizer)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.regs.Reject(f.ctx, reg.ID, organizer, "again")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.regs.Register(f.ctx, trip.ID, participant)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestListForTrip_OrganizerOrAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 3)

	_, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)

	_, err = f.regs.ListForTrip(f.ctx, trip.ID, participant, "")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	regs, err := f.regs.ListForTrip(f.ctx, trip.ID, admin, "")
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	approved, err := f.regs.ListForTrip(f.ctx, trip.ID, organizer, domain.RegistrationStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)

	mine, err := f.regs.ListForUser(f.ctx, participant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, trip.ID, mine[0].TripID)
}

func TestApproveRegistration_ConcurrentNeverExceedsCapacity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 2)

	const applicants = 6
	ids := make([]string, applicants)
	for i := range applicants {
		reg, err := f.regs.Register(f.ctx, trip.ID, domain.Actor{ID: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
		ids[i] = reg.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, applicants)
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.regs.Approve(f.ctx, id, organizer)
		}()
	}
	wg.Wait()

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	}
	assert.Equal(t, 2, approved)

	spots, err := f.regs.SpotsRemaining(f.ctx, trip.ID)
	require.NoError(t, err)
	assert.Zero(t, spots)
}
