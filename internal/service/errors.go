package service

import (
	"errors"
	"fmt"

	"trek/internal/domain"
	"trek/internal/repository"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a resolved actor.
	ErrNotAuthenticated = fmt.Errorf("%w: sign in required", domain.ErrUnauthenticated)

	// ErrNotPorter is returned when the actor lacks the porter capability.
	ErrNotPorter = fmt.Errorf("%w: porter capability required", domain.ErrPermissionDenied)

	// ErrNotAdmin is returned when the actor lacks the admin capability.
	ErrNotAdmin = fmt.Errorf("%w: admin capability required", domain.ErrPermissionDenied)

	// ErrNotOrganizer is returned when the actor does not organize the trip.
	ErrNotOrganizer = fmt.Errorf("%w: only the trip organizer may do this", domain.ErrPermissionDenied)

	// ErrNotSelf is returned when reading another user's private view.
	ErrNotSelf = fmt.Errorf("%w: cannot view another user's data", domain.ErrPermissionDenied)

	// ErrOrganizerCannotRegister is returned when an organizer signs up for their own trip.
	ErrOrganizerCannotRegister = fmt.Errorf("%w: organizers cannot register for their own trip", domain.ErrPermissionDenied)

	// ErrNotParticipant is returned when reviewing a trip without an approved registration.
	ErrNotParticipant = fmt.Errorf("%w: only approved participants may review", domain.ErrPermissionDenied)

	// ErrTripNotFound is returned when a trip does not exist or is hidden from the viewer.
	ErrTripNotFound = fmt.Errorf("trip %w", domain.ErrNotFound)

	// ErrRegistrationNotFound is returned when a registration does not exist.
	ErrRegistrationNotFound = fmt.Errorf("registration %w", domain.ErrNotFound)

	// ErrApplicationNotFound is returned when a porter application does not exist.
	ErrApplicationNotFound = fmt.Errorf("porter application %w", domain.ErrNotFound)

	// ErrReviewNotFound is returned when a review does not exist.
	ErrReviewNotFound = fmt.Errorf("review %w", domain.ErrNotFound)

	// ErrTripNotOpen is returned when registrations are not actionable on the trip.
	ErrTripNotOpen = fmt.Errorf("%w: trip is not open for registration", domain.ErrInvalidState)

	// ErrTripNotCompleted is returned when reviewing a trip that has not finished.
	ErrTripNotCompleted = fmt.Errorf("%w: trip is not completed", domain.ErrInvalidState)

	// ErrRegistrationClosed is returned after the registration deadline.
	ErrRegistrationClosed = fmt.Errorf("%w", domain.ErrDeadlinePassed)

	// ErrTripFull is returned when no spots remain.
	ErrTripFull = fmt.Errorf("%w: no spots remaining", domain.ErrCapacityExceeded)

	// ErrAlreadyRegistered is returned when the user already signed up for the trip.
	ErrAlreadyRegistered = fmt.Errorf("%w for this trip", domain.ErrAlreadyRegistered)

	// ErrApplicationPending is returned when the applicant has an open application.
	ErrApplicationPending = fmt.Errorf("%w: an application is already pending", domain.ErrAlreadyApplied)

	// ErrAlreadyPorter is returned when the applicant already holds the capability.
	ErrAlreadyPorter = fmt.Errorf("%w: user is already a porter", domain.ErrAlreadyApplied)

	// ErrAlreadyReviewed is returned when the user already reviewed the trip.
	ErrAlreadyReviewed = fmt.Errorf("review %w", domain.ErrAlreadyExists)
)

// notFound replaces repository.ErrNotFound with a specific error.
func notFound(err, specific error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return specific
	}
	return err
}
