package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus represents the state of a porter application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
	ApplicationStatusRevoked  ApplicationStatus = "REVOKED"
)

// PorterApplication is a request to acquire the porter capability.
type PorterApplication struct {
	ID              string
	ApplicantID     string
	FullName        string
	Phone           string
	Email           string
	ExperienceYears int
	Bio             string
	Status          ApplicationStatus
	RejectReason    string
	ReviewerID      string
	ReviewedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

// ApplicationInput holds applicant-supplied profile fields.
type ApplicationInput struct {
	FullName        string
	Phone           string
	Email           string
	ExperienceYears int
	Bio             string
}

// NewPorterApplication validates input and creates a pending application.
func NewPorterApplication(id, applicantID string, in ApplicationInput, now time.Time) (*PorterApplication, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Bio = strings.TrimSpace(in.Bio)

	if in.FullName == "" {
		return nil, NewValidationError("full_name", "is required")
	}
	if in.Phone == "" {
		return nil, NewValidationError("phone", "is required")
	}
	if in.ExperienceYears < 0 {
		return nil, NewValidationError("experience_years", "must not be negative")
	}

	return &PorterApplication{
		ID:              id,
		ApplicantID:     applicantID,
		FullName:        in.FullName,
		Phone:           in.Phone,
		Email:           in.Email,
		ExperienceYears: in.ExperienceYears,
		Bio:             in.Bio,
		Status:          ApplicationStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Approve grants the capability.
func (a *PorterApplication) Approve(reviewerID string, now time.Time) error {
	if a.Status != ApplicationStatusPending {
		return fmt.Errorf("%w: application is %s, not pending", ErrInvalidState, a.Status)
	}
	a.Status = ApplicationStatusApproved
	a.markReviewed(reviewerID, now)
	return nil
}

// Reject declines the application. A reason is required.
func (a *PorterApplication) Reject(reviewerID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewValidationError("reason", "is required")
	}
	if a.Status != ApplicationStatusPending {
		return fmt.Errorf("%w: application is %s, not pending", ErrInvalidState, a.Status)
	}
	a.Status = ApplicationStatusRejected
	a.RejectReason = reason
	a.markReviewed(reviewerID, now)
	return nil
}

// Revoke withdraws a previously granted capability.
func (a *PorterApplication) Revoke(reviewerID string, now time.Time) error {
	if a.Status != ApplicationStatusApproved {
		return fmt.Errorf("%w: application is %s, not approved", ErrInvalidState, a.Status)
	}
	a.Status = ApplicationStatusRevoked
	a.markReviewed(reviewerID, now)
	return nil
}

func (a *PorterApplication) markReviewed(reviewerID string, now time.Time) {
	a.ReviewerID = reviewerID
	a.ReviewedAt = now
	a.UpdatedAt = now
}

// GrantsPorter reports whether this application, as the applicant's latest,
// confers the porter capability.
func (a *PorterApplication) GrantsPorter() bool {
	return a != nil && a.Status == ApplicationStatusApproved
}
