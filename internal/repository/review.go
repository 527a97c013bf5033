package repository

import (
	"context"

	"trek/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review. Returns ErrDuplicate when the user
	// already reviewed the trip.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by ID.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// Update writes the review with a version check.
	Update(ctx context.Context, review *domain.Review) error

	// ListByTrip retrieves reviews of a trip, newest first.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Review, error)

	// ListByUser retrieves reviews written by a user.
	ListByUser(ctx context.Context, userID string) ([]*domain.Review, error)
}
