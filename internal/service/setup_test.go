package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trek/internal/domain"
	"trek/internal/repository/memory"
	"trek/internal/service"
)

// ──────────────────────────────────────────────
// TEST FIXTURE
// ──────────────────────────────────────────────

var (
	admin       = domain.Actor{ID: "admin", Capabilities: []domain.Capability{domain.CapabilityAdmin}}
	organizer   = domain.Actor{ID: "org", Capabilities: []domain.Capability{domain.CapabilityParticipant}}
	participant = domain.Actor{ID: "u1", Capabilities: []domain.Capability{domain.CapabilityParticipant}}
	other       = domain.Actor{ID: "u2", Capabilities: []domain.Capability{domain.CapabilityParticipant}}
	anonymous   = domain.Actor{}
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	clock   *clock
	events  *recorder
	trips   *service.TripService
	regs    *service.RegistrationService
	porters *service.PorterService
	reviews *service.ReviewService
	views   *service.ProjectionService
}

var start = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:    context.Background(),
		store:  memory.NewStore(),
		clock:  &clock{now: start},
		events: &recorder{},
	}
	opts := []service.Option{
		service.WithClock(f.clock.Now),
		service.WithEvents(f.events),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	f.trips = service.NewTripService(f.store, opts...)
	f.regs = service.NewRegistrationService(f.store, opts...)
	f.porters = service.NewPorterService(f.store, opts...)
	f.reviews = service.NewReviewService(f.store, opts...)
	f.views = service.NewProjectionService(f.store, opts...)
	return f
}

// makePorter grants the porter capability through the application workflow.
func (f *fixture) makePorter(t *testing.T, actor domain.Actor) {
	t.Helper()
	if ok, err := f.porters.IsPorter(f.ctx, actor.ID); err == nil && ok {
		return
	}
	app, err := f.porters.Apply(f.ctx, actor, service.ApplyRequest{FullName: "Organizer " + actor.ID, Phone: "0900000000"})
	require.NoError(t, err)
	_, err = f.porters.Approve(f.ctx, app.ID, admin)
	require.NoError(t, err)
}

func tripRequest(maxParticipants int) service.CreateTripRequest {
	return service.CreateTripRequest{
		Name:            "Tà Xùa sống lưng khủng long",
		Location:        "Bắc Yên, Sơn La",
		Description:     "Săn mây hai ngày một đêm",
		Difficulty:      "hard",
		DepartureDate:   start.AddDate(0, 0, 30),
		DurationDays:    2,
		MaxParticipants: maxParticipants,
		IncludedCostItems: []domain.CostItem{
			{Content: "Xe đưa đón", CostToken: "500k"},
			{Content: "Ăn uống", CostToken: "1tr"},
		},
	}
}

// approvedTrip creates, submits and approves a trip organized by organizer.
func (f *fixture) approvedTrip(t *testing.T, maxParticipants int) *domain.Trip {
	t.Helper()
	f.makePorter(t, organizer)

	trip, err := f.trips.CreateDraft(f.ctx, organizer, tripRequest(maxParticipants))
	require.NoError(t, err)
	_, err = f.trips.SubmitForApproval(f.ctx, trip.ID, organizer)
	require.NoError(t, err)
	trip, err = f.trips.Approve(f.ctx, trip.ID, admin)
	require.NoError(t, err)
	return trip
}

// completedTrip returns an approved trip moved past departure and completed.
func (f *fixture) completedTrip(t *testing.T, approvedParticipants ...domain.Actor) *domain.Trip {
	t.Helper()
	trip := f.approvedTrip(t, 10)
	for _, p := range approvedParticipants {
		reg, err := f.regs.Register(f.ctx, trip.ID, p)
		require.NoError(t, err)
		_, err = f.regs.Approve(f.ctx, reg.ID, organizer)
		require.NoError(t, err)
	}

	f.clock.Set(trip.DepartureDate.Add(time.Hour))
	trip, err := f.trips.MarkCompleted(f.ctx, trip.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TripStatusCompleted, trip.Status)
	return trip
}
