package service

import (
	"context"

	"github.com/google/uuid"

	"trek/internal/domain"
	"trek/internal/repository"
)

// TripService owns the trip lifecycle from draft to completion.
type TripService struct {
	core
}

// NewTripService creates a new TripService.
func NewTripService(store repository.Store, opts ...Option) *TripService {
	return &TripService{core: newCore(store, opts...)}
}

// CreateTripRequest contains the organizer-supplied fields of a new trip.
type CreateTripRequest = domain.TripInput

// CreateDraft creates a trip in DRAFT for an organizer holding the porter capability.
func (s *TripService) CreateDraft(ctx context.Context, actor domain.Actor, req CreateTripRequest) (*domain.Trip, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var trip *domain.Trip
	err := s.run(ctx, func(r repository.Repos) error {
		porter, err := lockedIsPorter(ctx, r, actor.ID)
		if err != nil {
			return err
		}
		if !porter {
			return ErrNotPorter
		}

		trip, err = domain.NewTrip(uuid.New().String(), actor.ID, req, s.now())
		if err != nil {
			return err
		}
		return r.Trips.Create(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// Get retrieves a trip by ID.
func (s *TripService) Get(ctx context.Context, tripID string) (*domain.Trip, error) {
	trip, err := s.store.Repos().Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, notFound(err, ErrTripNotFound)
	}
	return trip, nil
}

// Edit applies a patch to a draft or rejected trip.
func (s *TripService) Edit(ctx context.Context, tripID string, actor domain.Actor, patch domain.TripPatch) (*domain.Trip, error) {
	return s.organizerTransition(ctx, tripID, actor, func(trip *domain.Trip) error {
		return trip.Apply(patch, s.now())
	})
}

// SubmitForApproval puts a draft or rejected trip into the admin queue.
func (s *TripService) SubmitForApproval(ctx context.Context, tripID string, actor domain.Actor) (*domain.Trip, error) {
	trip, err := s.organizerTransition(ctx, tripID, actor, func(trip *domain.Trip) error {
		return trip.Submit(s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventTripSubmitted, trip.ID, string(trip.Status), actor.ID)
	return trip, nil
}

// Approve publishes a pending trip.
func (s *TripService) Approve(ctx context.Context, tripID string, admin domain.Actor) (*domain.Trip, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	trip, err := s.transition(ctx, tripID, func(trip *domain.Trip) error {
		return trip.Approve(s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventTripApproved, trip.ID, string(trip.Status), admin.ID)
	return trip, nil
}

// Reject returns a pending trip to its organizer with a reason.
func (s *TripService) Reject(ctx context.Context, tripID string, admin domain.Actor, reason string) (*domain.Trip, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	trip, err := s.transition(ctx, tripID, func(trip *domain.Trip) error {
		return trip.Reject(reason, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventTripRejected, trip.ID, string(trip.Status), admin.ID)
	return trip, nil
}

// Cancel terminates an approved trip. Its registrations stop being actionable.
func (s *TripService) Cancel(ctx context.Context, tripID string, actor domain.Actor) (*domain.Trip, error) {
	trip, err := s.organizerTransition(ctx, tripID, actor, func(trip *domain.Trip) error {
		return trip.Cancel(s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventTripCancelled, trip.ID, string(trip.Status), actor.ID)
	return trip, nil
}

// MarkCompleted completes an approved trip once it has departed. Calling it
// on a completed trip returns the trip unchanged.
func (s *TripService) MarkCompleted(ctx context.Context, tripID string) (*domain.Trip, error) {
	var trip *domain.Trip
	var changed bool
	err := s.run(ctx, func(r repository.Repos) error {
		var err error
		trip, err = r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return notFound(err, ErrTripNotFound)
		}
		changed, err = trip.Complete(s.now())
		if err != nil || !changed {
			return err
		}
		return r.Trips.Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, domain.EventTripCompleted, trip.ID, string(trip.Status), "")
	}
	return trip, nil
}

func (s *TripService) organizerTransition(ctx context.Context, tripID string, actor domain.Actor, apply func(*domain.Trip) error) (*domain.Trip, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, tripID, func(trip *domain.Trip) error {
		if trip.OrganizerID != actor.ID {
			return ErrNotOrganizer
		}
		return apply(trip)
	})
}

// transition loads the trip, applies a state change and writes it back
// under a version check.
func (s *TripService) transition(ctx context.Context, tripID string, apply func(*domain.Trip) error) (*domain.Trip, error) {
	var trip *domain.Trip
	err := s.run(ctx, func(r repository.Repos) error {
		var err error
		trip, err = r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return notFound(err, ErrTripNotFound)
		}
		if err := apply(trip); err != nil {
			return err
		}
		return r.Trips.Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}
