package repository

import (
	"context"

	"trek/internal/domain"
)

// PorterApplicationRepository defines the persistence operations for porter
// applications.
type PorterApplicationRepository interface {
	// Create persists a new application. Returns ErrDuplicate when the
	// applicant already has a pending one.
	Create(ctx context.Context, app *domain.PorterApplication) error

	// GetByID retrieves an application by ID.
	GetByID(ctx context.Context, id string) (*domain.PorterApplication, error)

	// LatestByApplicant retrieves the most recently created application of
	// a user.
	LatestByApplicant(ctx context.Context, applicantID string) (*domain.PorterApplication, error)

	// LockLatestByApplicant retrieves the most recent application of a user
	// and holds a row lock until the enclosing transaction ends.
	LockLatestByApplicant(ctx context.Context, applicantID string) (*domain.PorterApplication, error)

	// Update writes the application with a version check.
	Update(ctx context.Context, app *domain.PorterApplication) error

	// ListByStatus retrieves applications in the given status, oldest first.
	ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*domain.PorterApplication, error)
}
