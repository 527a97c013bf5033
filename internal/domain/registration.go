package domain

import (
	"fmt"
	"strings"
	"time"
)

// RegistrationStatus represents the organizer's decision on a sign-up.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "PENDING"
	RegistrationStatusApproved RegistrationStatus = "APPROVED"
	RegistrationStatusRejected RegistrationStatus = "REJECTED"
)

// ParseRegistrationStatus converts a query value into a status.
// An empty value matches every status.
func ParseRegistrationStatus(raw string) (RegistrationStatus, error) {
	s := RegistrationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case "", RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected:
		return s, nil
	default:
		return "", NewValidationError("status", fmt.Sprintf("unknown registration status %q", raw))
	}
}

// Registration is a participant's request to join a trip.
type Registration struct {
	ID           string
	TripID       string
	UserID       string
	Status       RegistrationStatus
	RejectReason string
	RegisteredAt time.Time
	UpdatedAt    time.Time
	Version      int64
}

// NewRegistration creates a pending registration.
func NewRegistration(id, tripID, userID string, now time.Time) *Registration {
	return &Registration{
		ID:           id,
		TripID:       tripID,
		UserID:       userID,
		Status:       RegistrationStatusPending,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

// Approve accepts a pending registration.
func (r *Registration) Approve(now time.Time) error {
	if r.Status != RegistrationStatusPending {
		return fmt.Errorf("%w: registration is %s, not pending", ErrInvalidState, r.Status)
	}
	r.Status = RegistrationStatusApproved
	r.UpdatedAt = now
	return nil
}

// Reject declines a pending registration. The reason is optional.
func (r *Registration) Reject(reason string, now time.Time) error {
	if r.Status != RegistrationStatusPending {
		return fmt.Errorf("%w: registration is %s, not pending", ErrInvalidState, r.Status)
	}
	r.Status = RegistrationStatusRejected
	r.RejectReason = strings.TrimSpace(reason)
	r.UpdatedAt = now
	return nil
}

// RegistrationCounts holds per-status registration totals for one trip.
type RegistrationCounts struct {
	Pending  int
	Approved int
	Rejected int
}

// CountByStatus tallies registrations. It is the single source of every
// capacity figure; counts are never stored.
func CountByStatus(regs []*Registration) RegistrationCounts {
	var c RegistrationCounts
	for _, r := range regs {
		switch r.Status {
		case RegistrationStatusPending:
			c.Pending++
		case RegistrationStatusApproved:
			c.Approved++
		case RegistrationStatusRejected:
			c.Rejected++
		}
	}
	return c
}

// SpotsRemaining is maxParticipants minus approved registrations, floored at 0.
func SpotsRemaining(trip *Trip, regs []*Registration) int {
	left := trip.MaxParticipants - CountByStatus(regs).Approved
	if left < 0 {
		return 0
	}
	return left
}
