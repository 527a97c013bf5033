package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MinFeedbackLength = 10
)

// Review is post-completion feedback bound to a (trip, participant) pair.
type Review struct {
	ID          string
	TripID      string
	UserID      string
	OrganizerID string
	Rating      int
	Feedback    string
	Visible     bool
	CreatedAt   time.Time
	Version     int64
}

// NewReview validates rating and feedback and creates a visible review.
func NewReview(id string, trip *Trip, userID string, rating int, feedback string, now time.Time) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, NewValidationError("rating", "must be between 1 and 5")
	}
	feedback = strings.TrimSpace(feedback)
	if utf8.RuneCountInString(feedback) < MinFeedbackLength {
		return nil, NewValidationError("feedback", "must be at least 10 characters")
	}
	return &Review{
		ID:          id,
		TripID:      trip.ID,
		UserID:      userID,
		OrganizerID: trip.OrganizerID,
		Rating:      rating,
		Feedback:    feedback,
		Visible:     true,
		CreatedAt:   now,
	}, nil
}
