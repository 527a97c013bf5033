package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"trek/internal/domain"
	"trek/internal/repository"
)

// RegistrationService owns participant sign-ups and the organizer's decision
// on them. Capacity is always derived from the stored registrations.
type RegistrationService struct {
	core
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(store repository.Store, opts ...Option) *RegistrationService {
	return &RegistrationService{core: newCore(store, opts...)}
}

// Register signs the actor up for an approved trip.
func (s *RegistrationService) Register(ctx context.Context, tripID string, actor domain.Actor) (*domain.Registration, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var reg *domain.Registration
	err := s.run(ctx, func(r repository.Repos) error {
		now := s.now()

		trip, err := r.Trips.LockByID(ctx, tripID)
		if err != nil {
			return notFound(err, ErrTripNotFound)
		}
		if trip.Status != domain.TripStatusApproved {
			return ErrTripNotOpen
		}
		if trip.OrganizerID == actor.ID {
			return ErrOrganizerCannotRegister
		}
		if !trip.RegistrationOpen(now) {
			return ErrRegistrationClosed
		}

		_, err = r.Registrations.GetByTripAndUser(ctx, tripID, actor.ID)
		switch {
		case err == nil:
			return ErrAlreadyRegistered
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		regs, err := r.Registrations.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if domain.SpotsRemaining(trip, regs) == 0 {
			return ErrTripFull
		}

		reg = domain.NewRegistration(uuid.New().String(), tripID, actor.ID, now)
		if err := r.Registrations.Create(ctx, reg); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventRegistrationCreated, reg.ID, string(reg.Status), actor.ID)
	return reg, nil
}

// Approve accepts a pending registration if a spot is left.
func (s *RegistrationService) Approve(ctx context.Context, registrationID string, actor domain.Actor) (*domain.Registration, error) {
	reg, err := s.decide(ctx, registrationID, actor, func(trip *domain.Trip, reg *domain.Registration, regs []*domain.Registration) error {
		if err := reg.Approve(s.now()); err != nil {
			return err
		}
		if domain.SpotsRemaining(trip, regs) == 0 {
			return ErrTripFull
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventRegistrationApproved, reg.ID, string(reg.Status), actor.ID)
	return reg, nil
}

// Reject declines a pending registration. The reason is optional.
func (s *RegistrationService) Reject(ctx context.Context, registrationID string, actor domain.Actor, reason string) (*domain.Registration, error) {
	reg, err := s.decide(ctx, registrationID, actor, func(_ *domain.Trip, reg *domain.Registration, _ []*domain.Registration) error {
		return reg.Reject(reason, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventRegistrationRejected, reg.ID, string(reg.Status), actor.ID)
	return reg, nil
}

// decide runs an organizer decision with the trip row locked so that two
// approvals cannot both take the last spot.
func (s *RegistrationService) decide(ctx context.Context, registrationID string, actor domain.Actor, apply func(*domain.Trip, *domain.Registration, []*domain.Registration) error) (*domain.Registration, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var reg *domain.Registration
	err := s.run(ctx, func(r repository.Repos) error {
		var err error
		reg, err = r.Registrations.GetByID(ctx, registrationID)
		if err != nil {
			return notFound(err, ErrRegistrationNotFound)
		}

		trip, err := r.Trips.LockByID(ctx, reg.TripID)
		if err != nil {
			return notFound(err, ErrTripNotFound)
		}
		if trip.OrganizerID != actor.ID {
			return ErrNotOrganizer
		}
		if trip.Status != domain.TripStatusApproved {
			return ErrTripNotOpen
		}

		regs, err := r.Registrations.ListByTrip(ctx, trip.ID)
		if err != nil {
			return err
		}
		if err := apply(trip, reg, regs); err != nil {
			return err
		}
		return r.Registrations.Update(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// ListForTrip returns a trip's registrations, optionally filtered by status.
// Only the organizer or an admin may list them.
func (s *RegistrationService) ListForTrip(ctx context.Context, tripID string, actor domain.Actor, status domain.RegistrationStatus) ([]*domain.Registration, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	trip, err := repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, notFound(err, ErrTripNotFound)
	}
	if trip.OrganizerID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotOrganizer
	}

	regs, err := repos.Registrations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return regs, nil
	}

	filtered := make([]*domain.Registration, 0, len(regs))
	for _, reg := range regs {
		if reg.Status == status {
			filtered = append(filtered, reg)
		}
	}
	return filtered, nil
}

// ListForUser returns the user's registrations, newest first.
func (s *RegistrationService) ListForUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	return s.store.Repos().Registrations.ListByUser(ctx, userID)
}

// SpotsRemaining derives the open spots of a trip from its registrations.
func (s *RegistrationService) SpotsRemaining(ctx context.Context, tripID string) (int, error) {
	repos := s.store.Repos()
	trip, err := repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return 0, notFound(err, ErrTripNotFound)
	}
	regs, err := repos.Registrations.ListByTrip(ctx, tripID)
	if err != nil {
		return 0, err
	}
	return domain.SpotsRemaining(trip, regs), nil
}
