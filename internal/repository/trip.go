package repository

import (
	"context"
	"time"

	"trek/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip at version 1.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// LockByID retrieves a trip and holds a row lock until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*domain.Trip, error)

	// Update writes the trip if its stored version equals trip.Version,
	// then advances trip.Version. Returns ErrConflict otherwise.
	Update(ctx context.Context, trip *domain.Trip) error

	// ListByStatus retrieves trips in the given status, ordered by
	// departure date.
	ListByStatus(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error)

	// ListByOrganizer retrieves every trip of an organizer, newest first.
	ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Trip, error)

	// ListDepartedBefore retrieves approved trips whose departure date is
	// not after t.
	ListDepartedBefore(ctx context.Context, t time.Time) ([]*domain.Trip, error)
}
