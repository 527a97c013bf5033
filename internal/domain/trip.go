package domain

import (
	"fmt"
	"strings"
	"time"

	"trek/internal/cost"
)

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusDraft           TripStatus = "DRAFT"
	TripStatusPendingApproval TripStatus = "PENDING_APPROVAL"
	TripStatusApproved        TripStatus = "APPROVED"
	TripStatusRejected        TripStatus = "REJECTED"
	TripStatusCancelled       TripStatus = "CANCELLED"
	TripStatusCompleted       TripStatus = "COMPLETED"
)

// TripStatuses lists every trip status in lifecycle order.
var TripStatuses = []TripStatus{
	TripStatusDraft,
	TripStatusPendingApproval,
	TripStatusApproved,
	TripStatusRejected,
	TripStatusCancelled,
	TripStatusCompleted,
}

// Difficulty is the physical grade of a trek.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// ParseDifficulty normalizes raw. An empty value is allowed and means the
// organizer has not chosen one yet.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return d, nil
	default:
		return "", NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", raw))
	}
}

// CostItem is one free-form line of a trip budget.
type CostItem = cost.Item

// Trip is a schedulable group trek organized by a porter.
type Trip struct {
	ID                   string
	OrganizerID          string
	Name                 string
	Location             string
	Description          string
	Difficulty           Difficulty
	DepartureDate        time.Time
	RegistrationDeadline time.Time
	DurationDays         int
	MaxParticipants      int
	IncludedCostItems    []CostItem
	AdditionalCostItems  []CostItem
	EstimatedPrice       int64 // VND, derived from IncludedCostItems
	Status               TripStatus
	RejectReason         string
	SubmittedAt          time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Version              int64
}

// TripInput holds organizer-supplied trip fields.
type TripInput struct {
	Name                 string
	Location             string
	Description          string
	Difficulty           string
	DepartureDate        time.Time
	RegistrationDeadline time.Time
	DurationDays         int
	MaxParticipants      int
	IncludedCostItems    []CostItem
	AdditionalCostItems  []CostItem
}

// TripPatch holds a partial edit. Nil fields are left unchanged.
type TripPatch struct {
	Name                 *string
	Location             *string
	Description          *string
	Difficulty           *string
	DepartureDate        *time.Time
	RegistrationDeadline *time.Time
	DurationDays         *int
	MaxParticipants      *int
	IncludedCostItems    []CostItem
	AdditionalCostItems  []CostItem
}

// NewTrip builds a draft trip. Defaults are resolved here so that stored
// trips are always complete.
func NewTrip(id, organizerID string, in TripInput, now time.Time) (*Trip, error) {
	difficulty, err := ParseDifficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}
	if in.MaxParticipants < 0 {
		return nil, NewValidationError("max_participants", "must not be negative")
	}
	if in.DurationDays < 0 {
		return nil, NewValidationError("duration_days", "must not be negative")
	}

	t := &Trip{
		ID:                   id,
		OrganizerID:          organizerID,
		Name:                 strings.TrimSpace(in.Name),
		Location:             strings.TrimSpace(in.Location),
		Description:          strings.TrimSpace(in.Description),
		Difficulty:           difficulty,
		DepartureDate:        in.DepartureDate,
		RegistrationDeadline: in.RegistrationDeadline,
		DurationDays:         in.DurationDays,
		MaxParticipants:      in.MaxParticipants,
		IncludedCostItems:    normalizeItems(in.IncludedCostItems),
		AdditionalCostItems:  normalizeItems(in.AdditionalCostItems),
		Status:               TripStatusDraft,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if t.RegistrationDeadline.IsZero() {
		t.RegistrationDeadline = t.DepartureDate
	}
	t.recalculate()
	return t, nil
}

// Editable reports whether the organizer may still change the trip.
func (t *Trip) Editable() bool {
	return t.Status == TripStatusDraft || t.Status == TripStatusRejected
}

// Apply merges patch into the trip and recomputes the estimated price.
func (t *Trip) Apply(patch TripPatch, now time.Time) error {
	if !t.Editable() {
		return fmt.Errorf("%w: trip in status %s cannot be edited", ErrInvalidState, t.Status)
	}

	if patch.Difficulty != nil {
		d, err := ParseDifficulty(*patch.Difficulty)
		if err != nil {
			return err
		}
		t.Difficulty = d
	}
	if patch.MaxParticipants != nil {
		if *patch.MaxParticipants < 0 {
			return NewValidationError("max_participants", "must not be negative")
		}
		t.MaxParticipants = *patch.MaxParticipants
	}
	if patch.DurationDays != nil {
		if *patch.DurationDays < 0 {
			return NewValidationError("duration_days", "must not be negative")
		}
		t.DurationDays = *patch.DurationDays
	}
	if patch.Name != nil {
		t.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Location != nil {
		t.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.DepartureDate != nil {
		t.DepartureDate = *patch.DepartureDate
	}
	if patch.RegistrationDeadline != nil {
		t.RegistrationDeadline = *patch.RegistrationDeadline
	}
	if patch.IncludedCostItems != nil {
		t.IncludedCostItems = normalizeItems(patch.IncludedCostItems)
	}
	if patch.AdditionalCostItems != nil {
		t.AdditionalCostItems = normalizeItems(patch.AdditionalCostItems)
	}

	t.UpdatedAt = now
	t.recalculate()
	return nil
}

// ValidateForSubmission checks the fields an admin needs to review the trip.
func (t *Trip) ValidateForSubmission() error {
	switch {
	case t.Name == "":
		return NewValidationError("name", "is required")
	case t.Location == "":
		return NewValidationError("location", "is required")
	case t.Difficulty == "":
		return NewValidationError("difficulty", "is required")
	case t.MaxParticipants <= 0:
		return NewValidationError("max_participants", "must be positive")
	case t.DepartureDate.IsZero():
		return NewValidationError("departure_date", "is required")
	case t.RegistrationDeadline.After(t.DepartureDate):
		return NewValidationError("registration_deadline", "must not be after departure_date")
	}
	return nil
}

// Submit moves a draft or rejected trip into the approval queue.
func (t *Trip) Submit(now time.Time) error {
	if !t.Editable() {
		return fmt.Errorf("%w: trip in status %s cannot be submitted", ErrInvalidState, t.Status)
	}
	if err := t.ValidateForSubmission(); err != nil {
		return err
	}
	t.Status = TripStatusPendingApproval
	t.RejectReason = ""
	t.SubmittedAt = now
	t.UpdatedAt = now
	return nil
}

// Approve publishes a pending trip.
func (t *Trip) Approve(now time.Time) error {
	if t.Status != TripStatusPendingApproval {
		return fmt.Errorf("%w: trip is %s, not pending approval", ErrInvalidState, t.Status)
	}
	t.Status = TripStatusApproved
	t.UpdatedAt = now
	return nil
}

// Reject sends a pending trip back to its organizer with a reason.
func (t *Trip) Reject(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewValidationError("reason", "is required")
	}
	if t.Status != TripStatusPendingApproval {
		return fmt.Errorf("%w: trip is %s, not pending approval", ErrInvalidState, t.Status)
	}
	t.Status = TripStatusRejected
	t.RejectReason = reason
	t.UpdatedAt = now
	return nil
}

// Cancel terminates an approved trip.
func (t *Trip) Cancel(now time.Time) error {
	if t.Status != TripStatusApproved {
		return fmt.Errorf("%w: only approved trips can be cancelled, trip is %s", ErrInvalidState, t.Status)
	}
	t.Status = TripStatusCancelled
	t.UpdatedAt = now
	return nil
}

// Complete marks an approved trip whose departure date has passed.
// It reports false when the trip was already completed.
func (t *Trip) Complete(now time.Time) (bool, error) {
	if t.Status == TripStatusCompleted {
		return false, nil
	}
	if t.Status != TripStatusApproved {
		return false, fmt.Errorf("%w: only approved trips can be completed, trip is %s", ErrInvalidState, t.Status)
	}
	if now.Before(t.DepartureDate) {
		return false, fmt.Errorf("%w: trip has not departed yet", ErrInvalidState)
	}
	t.Status = TripStatusCompleted
	t.UpdatedAt = now
	return true, nil
}

// RegistrationOpen reports whether now is within the registration window.
func (t *Trip) RegistrationOpen(now time.Time) bool {
	return !now.After(t.RegistrationDeadline)
}

// recalculate is the only writer of EstimatedPrice.
func (t *Trip) recalculate() {
	t.EstimatedPrice = cost.Aggregate(t.IncludedCostItems)
}

func normalizeItems(items []CostItem) []CostItem {
	out := make([]CostItem, 0, len(items))
	for _, it := range items {
		it.Content = strings.TrimSpace(it.Content)
		it.CostToken = strings.TrimSpace(it.CostToken)
		if it.Content == "" && it.CostToken == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}
