package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trek/internal/domain"
	"trek/internal/service"
)

var applicant = domain.Actor{ID: "p1", Capabilities: []domain.Capability{domain.CapabilityParticipant}}

func applyRequest() service.ApplyRequest {
	return service.ApplyRequest{
		FullName:        "Nguyễn Văn Porter",
		Phone:           "0912345678",
		Email:           "porter@example.com",
		ExperienceYears: 3,
		Bio:             "Dẫn đoàn Tây Bắc",
	}
}

func TestApply_OnePendingAtATime(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	app, err := f.porters.Apply(f.ctx, applicant, applyRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	_, err = f.porters.Apply(f.ctx, applicant, applyRequest())
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.ErrorIs(t, err, service.ErrApplicationPending)
}

func TestApply_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := applyRequest()
	req.Phone = ""
	_, err := f.porters.Apply(f.ctx, applicant, req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)

	_, err = f.porters.Apply(f.ctx, anonymous, applyRequest())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestApprove_GrantsCapability(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	app, err := f.porters.Apply(f.ctx, applicant, applyRequest())
	require.NoError(t, err)

	ok, err := f.porters.IsPorter(f.ctx, applicant.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.porters.Approve(f.ctx, app.ID, applicant)
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	app, err = f.porters.Approve(f.ctx, app.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, app.ReviewerID)

	ok, err = f.porters.IsPorter(f.ctx, applicant.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.porters.Apply(f.ctx, applicant, applyRequest())
	assert.ErrorIs(t, err, service.ErrAlreadyPorter)

	_, err = f.porters.Approve(f.ctx, app.ID, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRejectApplication_RequiresReason(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	app, err := f.porters.Apply(f.ctx, applicant, applyRequest())
	require.NoError(t, err)

	_, err = f.porters.Reject(f.ctx, app.ID, admin, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	latest, err := f.porters.Latest(f.ctx, applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, latest.Status)
}

func TestRevoke_RemovesCapability(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.makePorter(t, organizer)

	_, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)

	_, err = f.porters.Revoke(f.ctx, organizer.ID, participant)
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	app, err := f.porters.Revoke(f.ctx, organizer.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRevoked, app.Status)

	_, err = f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = f.porters.Revoke(f.ctx, organizer.ID, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.porters.Revoke(f.ctx, "never-applied", admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Contains(t, f.events.Types(), domain.EventPorterRevoked)
}

func TestRevoke_AllowsReapplying(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.makePorter(t, organizer)

	_, err := f.porters.Revoke(f.ctx, organizer.ID, admin)
	require.NoError(t, err)

	app, err := f.porters.Apply(f.ctx, organizer, applyRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
}
