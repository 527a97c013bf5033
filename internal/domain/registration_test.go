package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_Transitions(t *testing.T) {
	r := NewRegistration("r1", "t1", "u1", now)
	assert.Equal(t, RegistrationStatusPending, r.Status)

	require.NoError(t, r.Approve(now))
	assert.ErrorIs(t, r.Approve(now), ErrInvalidState)
	assert.ErrorIs(t, r.Reject("", now), ErrInvalidState)

	r2 := NewRegistration("r2", "t1", "u2", now)
	require.NoError(t, r2.Reject(" full ", now))
	assert.Equal(t, "full", r2.RejectReason)
	assert.ErrorIs(t, r2.Approve(now), ErrInvalidState)
}

func TestSpotsRemaining(t *testing.T) {
	trip := &Trip{MaxParticipants: 2}
	regs := []*Registration{
		{Status: RegistrationStatusApproved},
		{Status: RegistrationStatusPending},
		{Status: RegistrationStatusRejected},
	}

	assert.Equal(t, 1, SpotsRemaining(trip, regs))
	assert.Equal(t, RegistrationCounts{Pending: 1, Approved: 1, Rejected: 1}, CountByStatus(regs))

	regs = append(regs, &Registration{Status: RegistrationStatusApproved}, &Registration{Status: RegistrationStatusApproved})
	assert.Equal(t, 0, SpotsRemaining(trip, regs))
}

func TestParseRegistrationStatus(t *testing.T) {
	s, err := ParseRegistrationStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, RegistrationStatusApproved, s)

	s, err = ParseRegistrationStatus("")
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = ParseRegistrationStatus("maybe")
	assert.ErrorIs(t, err, ErrValidation)
}
