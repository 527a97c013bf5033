package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every lifecycle operation fails with exactly one of these,
// usually wrapped with a more specific message.
var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation error")

	// ErrPermissionDenied is returned when the actor lacks the required
	// capability or ownership.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState is returned when a transition is illegal from the
	// current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when a user registers twice for a trip.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrAlreadyApplied is returned when an applicant already has an open
	// porter application or already holds the capability.
	ErrAlreadyApplied = errors.New("already applied")

	// ErrAlreadyExists is returned for duplicate reviews.
	ErrAlreadyExists = errors.New("already exists")

	// ErrCapacityExceeded is returned when a trip has no spots left.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrDeadlinePassed is returned when registering after the deadline.
	ErrDeadlinePassed = errors.New("registration deadline passed")

	// ErrUnauthenticated is returned at the edge when no actor is resolved.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
