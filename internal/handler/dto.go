package handler

import (
	"time"

	"trek/internal/cost"
	"trek/internal/domain"
	"trek/internal/service"
)

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID                    string      `json:"id"`
	OrganizerID           string      `json:"organizer_id"`
	Name                  string      `json:"name"`
	Location              string      `json:"location"`
	Description           string      `json:"description,omitempty"`
	Difficulty            string      `json:"difficulty,omitempty"`
	DepartureDate         time.Time   `json:"departure_date,omitzero"`
	RegistrationDeadline  time.Time   `json:"registration_deadline,omitzero"`
	DurationDays          int         `json:"duration_days"`
	MaxParticipants       int         `json:"max_participants"`
	IncludedCostItems     []cost.Item `json:"included_cost_items"`
	AdditionalCostItems   []cost.Item `json:"additional_cost_items"`
	EstimatedPrice        int64       `json:"estimated_price"`
	EstimatedPriceDisplay string      `json:"estimated_price_display"`
	Status                string      `json:"status"`
	RejectReason          string      `json:"reject_reason,omitempty"`
	SubmittedAt           time.Time   `json:"submitted_at,omitzero"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
	SpotsRemaining        *int        `json:"spots_remaining,omitempty"`
}

func toTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                    t.ID,
		OrganizerID:           t.OrganizerID,
		Name:                  t.Name,
		Location:              t.Location,
		Description:           t.Description,
		Difficulty:            string(t.Difficulty),
		DepartureDate:         t.DepartureDate,
		RegistrationDeadline:  t.RegistrationDeadline,
		DurationDays:          t.DurationDays,
		MaxParticipants:       t.MaxParticipants,
		IncludedCostItems:     nonNil(t.IncludedCostItems),
		AdditionalCostItems:   nonNil(t.AdditionalCostItems),
		EstimatedPrice:        t.EstimatedPrice,
		EstimatedPriceDisplay: cost.FormatVND(t.EstimatedPrice),
		Status:                string(t.Status),
		RejectReason:          t.RejectReason,
		SubmittedAt:           t.SubmittedAt,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

func toSummaryResponse(s service.TripSummary) TripResponse {
	resp := toTripResponse(s.Trip)
	spots := s.SpotsRemaining
	resp.SpotsRemaining = &spots
	return resp
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// RegistrationResponse is the HTTP representation of a registration.
type RegistrationResponse struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toRegistrationResponse(r *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		TripID:       r.TripID,
		UserID:       r.UserID,
		Status:       string(r.Status),
		RejectReason: r.RejectReason,
		RegisteredAt: r.RegisteredAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toRegistrationResponses(regs []*domain.Registration) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(regs))
	for _, r := range regs {
		out = append(out, toRegistrationResponse(r))
	}
	return out
}

// ApplicationResponse is the HTTP representation of a porter application.
type ApplicationResponse struct {
	ID              string    `json:"id"`
	ApplicantID     string    `json:"applicant_id"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	Bio             string    `json:"bio,omitempty"`
	Status          string    `json:"status"`
	RejectReason    string    `json:"reject_reason,omitempty"`
	ReviewerID      string    `json:"reviewer_id,omitempty"`
	ReviewedAt      time.Time `json:"reviewed_at,omitzero"`
	CreatedAt       time.Time `json:"created_at"`
}

func toApplicationResponse(a *domain.PorterApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		ApplicantID:     a.ApplicantID,
		FullName:        a.FullName,
		Phone:           a.Phone,
		Email:           a.Email,
		ExperienceYears: a.ExperienceYears,
		Bio:             a.Bio,
		Status:          string(a.Status),
		RejectReason:    a.RejectReason,
		ReviewerID:      a.ReviewerID,
		ReviewedAt:      a.ReviewedAt,
		CreatedAt:       a.CreatedAt,
	}
}

// ReviewResponse is the HTTP representation of a review.
type ReviewResponse struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	UserID      string    `json:"user_id"`
	OrganizerID string    `json:"organizer_id"`
	Rating      int       `json:"rating"`
	Feedback    string    `json:"feedback"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"created_at"`
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		TripID:      r.TripID,
		UserID:      r.UserID,
		OrganizerID: r.OrganizerID,
		Rating:      r.Rating,
		Feedback:    r.Feedback,
		Visible:     r.Visible,
		CreatedAt:   r.CreatedAt,
	}
}
