package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trek/internal/domain"
	"trek/internal/service"
)

func TestPublicListing_OnlyApproved(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	approved := f.approvedTrip(t, 5)

	draft, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)
	pending, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)
	_, err = f.trips.SubmitForApproval(f.ctx, pending.ID, organizer)
	require.NoError(t, err)
	cancelled := f.approvedTrip(t, 5)
	_, err = f.trips.Cancel(f.ctx, cancelled.ID, organizer)
	require.NoError(t, err)

	listing, err := f.views.PublicListing(f.ctx, participant, service.ListingFilter{})
	require.NoError(t, err)

	require.Len(t, listing, 1)
	assert.Equal(t, approved.ID, listing[0].Trip.ID)
	for _, row := range listing {
		assert.Equal(t, domain.TripStatusApproved, row.Trip.Status)
		assert.NotEqual(t, draft.ID, row.Trip.ID)
	}
}

func TestPublicListing_HidesOwnTripsFromPorter(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 5)

	own, err := f.views.PublicListing(f.ctx, organizer, service.ListingFilter{})
	require.NoError(t, err)
	assert.Empty(t, own)

	_, err = f.porters.Revoke(f.ctx, organizer.ID, admin)
	require.NoError(t, err)

	own, err = f.views.PublicListing(f.ctx, organizer, service.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, trip.ID, own[0].Trip.ID)
}

func TestPublicListing_FiltersAndOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.makePorter(t, organizer)

	create := func(name, location, difficulty string, departIn int) *domain.Trip {
		req := tripRequest(4)
		req.Name = name
		req.Location = location
		req.Difficulty = difficulty
		req.DepartureDate = start.AddDate(0, 0, departIn)
		trip, err := f.trips.CreateDraft(f.ctx, organizer, req)
		require.NoError(t, err)
		_, err = f.trips.SubmitForApproval(f.ctx, trip.ID, organizer)
		require.NoError(t, err)
		trip, err = f.trips.Approve(f.ctx, trip.ID, admin)
		require.NoError(t, err)
		return trip
	}

	late := create("Bạch Mộc Lương Tử", "Lai Châu", "extreme", 40)
	early := create("Lảo Thẩn", "Lào Cai", "medium", 10)
	mid := create("Tà Xùa", "Sơn La", "hard", 20)

	all, err := f.views.PublicListing(f.ctx, anonymous, service.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{early.ID, mid.ID, late.ID}, []string{all[0].Trip.ID, all[1].Trip.ID, all[2].Trip.ID})

	tests := []struct {
		name   string
		filter service.ListingFilter
		want   []string
	}{
		{"accent-insensitive text", service.ListingFilter{Query: "ta xua"}, []string{mid.ID}},
		{"location", service.ListingFilter{Location: "LAO CAI"}, []string{early.ID}},
		{"difficulty", service.ListingFilter{Difficulty: domain.DifficultyExtreme}, []string{late.ID}},
		{"date range", service.ListingFilter{From: start.AddDate(0, 0, 15), To: start.AddDate(0, 0, 40)}, []string{mid.ID, late.ID}},
		{"d with stroke", service.ListingFilter{Query: "bach moc"}, []string{late.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.views.PublicListing(f.ctx, anonymous, tt.filter)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, row := range got {
				ids[i] = row.Trip.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTripDetail_Visibility(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.makePorter(t, organizer)

	draft, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)

	_, err = f.views.TripDetail(f.ctx, participant, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.views.TripDetail(f.ctx, organizer, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.SpotsRemaining)

	_, err = f.views.TripDetail(f.ctx, admin, draft.ID)
	assert.NoError(t, err)
}

func TestOrganizerInbox_GroupsWithCounts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.approvedTrip(t, 5)
	_, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)

	a, err := f.regs.Register(f.ctx, trip.ID, participant)
	require.NoError(t, err)
	b, err := f.regs.Register(f.ctx, trip.ID, other)
	require.NoError(t, err)
	_, err = f.regs.Register(f.ctx, trip.ID, domain.Actor{ID: "u3"})
	require.NoError(t, err)
	_, err = f.regs.Approve(f.ctx, a.ID, organizer)
	require.NoError(t, err)
	_, err = f.regs.Reject(f.ctx, b.ID, organizer, "full van")
	require.NoError(t, err)

	_, err = f.views.OrganizerInbox(f.ctx, participant, organizer.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	groups, err := f.views.OrganizerInbox(f.ctx, organizer, organizer.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, domain.TripStatusDraft, groups[0].Status)
	assert.Equal(t, domain.TripStatusApproved, groups[1].Status)

	row := groups[1].Trips[0]
	assert.Equal(t, domain.RegistrationCounts{Pending: 1, Approved: 1, Rejected: 1}, row.Counts)
	assert.Equal(t, 4, row.SpotsRemaining)
}

func TestParticipantView(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	trip := f.completedTrip(t, participant)

	view, err := f.views.ParticipantView(f.ctx, participant, participant.ID)
	require.NoError(t, err)
	require.Len(t, view.Registrations, 1)
	require.Len(t, view.Completed, 1)
	assert.False(t, view.Completed[0].HasReviewed)

	_, err = f.reviews.Create(f.ctx, trip.ID, participant, service.CreateReviewRequest{Rating: 5, Feedback: "great views!"})
	require.NoError(t, err)

	view, err = f.views.ParticipantView(f.ctx, participant, participant.ID)
	require.NoError(t, err)
	assert.True(t, view.Completed[0].HasReviewed)

	_, err = f.views.ParticipantView(f.ctx, other, participant.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestAdminQueue_FIFO(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.makePorter(t, organizer)

	first, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)
	second, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(5))
	require.NoError(t, err)

	_, err = f.trips.SubmitForApproval(f.ctx, second.ID, organizer)
	require.NoError(t, err)
	f.clock.Set(start.Add(time.Minute))
	_, err = f.trips.SubmitForApproval(f.ctx, first.ID, organizer)
	require.NoError(t, err)

	queue, err := f.views.AdminQueue(f.ctx, admin, service.QueueTrips)
	require.NoError(t, err)
	require.Len(t, queue.Trips, 2)
	assert.Equal(t, second.ID, queue.Trips[0].ID)
	assert.Equal(t, first.ID, queue.Trips[1].ID)

	_, err = f.porters.Apply(f.ctx, participant, applyRequest())
	require.NoError(t, err)
	f.clock.Set(start.Add(2 * time.Minute))
	_, err = f.porters.Apply(f.ctx, other, applyRequest())
	require.NoError(t, err)

	queue, err = f.views.AdminQueue(f.ctx, admin, service.QueuePorterApplications)
	require.NoError(t, err)
	require.Len(t, queue.Applications, 2)
	assert.Equal(t, participant.ID, queue.Applications[0].ApplicantID)

	_, err = f.views.AdminQueue(f.ctx, organizer, service.QueueTrips)
	assert.ErrorIs(t, err, service.ErrNotAdmin)

	_, err = f.views.AdminQueue(f.ctx, admin, "users")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
