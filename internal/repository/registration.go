package repository

import (
	"context"

	"trek/internal/domain"
)

// RegistrationRepository defines the persistence operations for registrations.
type RegistrationRepository interface {
	// Create persists a new registration. Returns ErrDuplicate when the
	// user already registered for the trip.
	Create(ctx context.Context, reg *domain.Registration) error

	// GetByID retrieves a registration by ID.
	GetByID(ctx context.Context, id string) (*domain.Registration, error)

	// GetByTripAndUser retrieves the registration of a user for a trip.
	GetByTripAndUser(ctx context.Context, tripID, userID string) (*domain.Registration, error)

	// Update writes the registration with a version check.
	Update(ctx context.Context, reg *domain.Registration) error

	// ListByTrip retrieves registrations of a trip in sign-up order.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Registration, error)

	// ListByUser retrieves registrations of a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error)
}
