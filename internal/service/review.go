package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"trek/internal/domain"
	"trek/internal/repository"
)

// ReviewService handles post-trip feedback.
type ReviewService struct {
	core
}

// NewReviewService creates a new ReviewService.
func NewReviewService(store repository.Store, opts ...Option) *ReviewService {
	return &ReviewService{core: newCore(store, opts...)}
}

// CreateReviewRequest contains the participant's feedback.
type CreateReviewRequest struct {
	Rating   int
	Feedback string
}

// Create records a review by an approved participant of a completed trip.
func (s *ReviewService) Create(ctx context.Context, tripID string, actor domain.Actor, req CreateReviewRequest) (*domain.Review, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var review *domain.Review
	err := s.run(ctx, func(r repository.Repos) error {
		trip, err := r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return notFound(err, ErrTripNotFound)
		}
		if trip.Status != domain.TripStatusCompleted {
			return ErrTripNotCompleted
		}

		reg, err := r.Registrations.GetByTripAndUser(ctx, tripID, actor.ID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && reg.Status != domain.RegistrationStatusApproved) {
			return ErrNotParticipant
		}
		if err != nil {
			return err
		}

		review, err = domain.NewReview(uuid.New().String(), trip, actor.ID, req.Rating, req.Feedback, s.now())
		if err != nil {
			return err
		}
		if err := r.Reviews.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyReviewed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventReviewCreated, review.ID, "VISIBLE", actor.ID)
	return review, nil
}

// SetVisibility hides or shows a review. Admin only.
func (s *ReviewService) SetVisibility(ctx context.Context, reviewID string, admin domain.Actor, visible bool) (*domain.Review, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	var review *domain.Review
	err := s.run(ctx, func(r repository.Repos) error {
		var err error
		review, err = r.Reviews.GetByID(ctx, reviewID)
		if err != nil {
			return notFound(err, ErrReviewNotFound)
		}
		if review.Visible == visible {
			return nil
		}
		review.Visible = visible
		return r.Reviews.Update(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

// ListForTrip returns a trip's reviews. Hidden reviews are only listed for admins.
func (s *ReviewService) ListForTrip(ctx context.Context, tripID string, viewer domain.Actor) ([]*domain.Review, error) {
	reviews, err := s.store.Repos().Reviews.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if viewer.IsAdmin() {
		return reviews, nil
	}

	visible := make([]*domain.Review, 0, len(reviews))
	for _, review := range reviews {
		if review.Visible {
			visible = append(visible, review)
		}
	}
	return visible, nil
}
