package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func validInput() TripInput {
	return TripInput{
		Name:            "Tà Xùa",
		Location:        "Sơn La",
		Difficulty:      "hard",
		DepartureDate:   now.AddDate(0, 1, 0),
		MaxParticipants: 10,
		IncludedCostItems: []CostItem{
			{Content: "Xe đưa đón", CostToken: "500k"},
			{Content: "Ăn uống", CostToken: "1tr"},
		},
	}
}

func TestNewTrip_ResolvesDefaults(t *testing.T) {
	in := validInput()
	in.AdditionalCostItems = nil

	trip, err := NewTrip("t1", "org", in, now)
	require.NoError(t, err)

	assert.Equal(t, TripStatusDraft, trip.Status)
	assert.Equal(t, int64(1_500_000), trip.EstimatedPrice)
	assert.NotNil(t, trip.AdditionalCostItems)
	assert.Empty(t, trip.AdditionalCostItems)
	assert.Equal(t, in.DepartureDate, trip.RegistrationDeadline)
}

func TestNewTrip_UnknownDifficulty(t *testing.T) {
	in := validInput()
	in.Difficulty = "brutal"

	_, err := NewTrip("t1", "org", in, now)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "difficulty", verr.Field)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTrip_ApplyRecalculatesPrice(t *testing.T) {
	trip, err := NewTrip("t1", "org", validInput(), now)
	require.NoError(t, err)

	err = trip.Apply(TripPatch{IncludedCostItems: []CostItem{{Content: "Homestay", CostToken: "2.5tr"}}}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2_500_000), trip.EstimatedPrice)

	name := "Lảo Thẩn"
	require.NoError(t, trip.Apply(TripPatch{Name: &name}, now))
	assert.Equal(t, int64(2_500_000), trip.EstimatedPrice)
}

func TestTrip_SubmitMissingNameKeepsDraft(t *testing.T) {
	in := validInput()
	in.Name = "  "
	trip, err := NewTrip("t1", "org", in, now)
	require.NoError(t, err)

	err = trip.Submit(now)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, TripStatusDraft, trip.Status)
	assert.True(t, trip.SubmittedAt.IsZero())
}

func TestTrip_Transitions(t *testing.T) {
	trip, err := NewTrip("t1", "org", validInput(), now)
	require.NoError(t, err)

	assert.ErrorIs(t, trip.Approve(now), ErrInvalidState)

	require.NoError(t, trip.Submit(now))
	assert.Equal(t, TripStatusPendingApproval, trip.Status)
	assert.ErrorIs(t, trip.Apply(TripPatch{}, now), ErrInvalidState)

	assert.ErrorIs(t, trip.Reject("", now), ErrValidation)
	require.NoError(t, trip.Reject("thiếu lịch trình", now))
	assert.Equal(t, "thiếu lịch trình", trip.RejectReason)

	require.NoError(t, trip.Submit(now))
	assert.Empty(t, trip.RejectReason)

	require.NoError(t, trip.Approve(now))
	assert.ErrorIs(t, trip.Submit(now), ErrInvalidState)

	require.NoError(t, trip.Cancel(now))
	assert.ErrorIs(t, trip.Cancel(now), ErrInvalidState)
	_, err = trip.Complete(now.AddDate(1, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTrip_Complete(t *testing.T) {
	trip, err := NewTrip("t1", "org", validInput(), now)
	require.NoError(t, err)
	require.NoError(t, trip.Submit(now))
	require.NoError(t, trip.Approve(now))

	_, err = trip.Complete(now)
	assert.True(t, errors.Is(err, ErrInvalidState), "cannot complete before departure")

	changed, err := trip.Complete(trip.DepartureDate)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = trip.Complete(trip.DepartureDate.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, TripStatusCompleted, trip.Status)
}

func TestTrip_ValidateForSubmission(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TripInput)
		field  string
	}{
		{"missing location", func(in *TripInput) { in.Location = "" }, "location"},
		{"missing difficulty", func(in *TripInput) { in.Difficulty = "" }, "difficulty"},
		{"no capacity", func(in *TripInput) { in.MaxParticipants = 0 }, "max_participants"},
		{"deadline after departure", func(in *TripInput) { in.RegistrationDeadline = in.DepartureDate.Add(time.Hour) }, "registration_deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			trip, err := NewTrip("t1", "org", in, now)
			require.NoError(t, err)

			var verr *ValidationError
			require.ErrorAs(t, trip.ValidateForSubmission(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTrip_RegistrationOpen(t *testing.T) {
	trip, err := NewTrip("t1", "org", validInput(), now)
	require.NoError(t, err)

	assert.True(t, trip.RegistrationOpen(trip.RegistrationDeadline))
	assert.False(t, trip.RegistrationOpen(trip.RegistrationDeadline.Add(time.Second)))
}
