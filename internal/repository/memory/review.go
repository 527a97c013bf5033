package memory

import (
	"cmp"
	"context"
	"slices"

	"trek/internal/domain"
	"trek/internal/repository"
)

// ReviewRepository is an in-memory implementation of repository.ReviewRepository.
type ReviewRepository struct {
	a access
}

// Create persists a new review.
func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	return r.a.write(func(st *state) error {
		for _, existing := range st.reviews {
			if existing.TripID == review.TripID && existing.UserID == review.UserID {
				return repository.ErrDuplicate
			}
		}
		review.Version = 1
		st.reviews[review.ID] = cloneOf(review)
		st.insert(review.ID)
		return nil
	})
}

// GetByID retrieves a review by ID.
func (r *ReviewRepository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	var review *domain.Review
	r.a.read(func(st *state) {
		if v, ok := st.reviews[id]; ok {
			review = cloneOf(v)
		}
	})
	if review == nil {
		return nil, repository.ErrNotFound
	}
	return review, nil
}

// Update writes the review with a version check.
func (r *ReviewRepository) Update(_ context.Context, review *domain.Review) error {
	return r.a.write(func(st *state) error {
		stored, ok := st.reviews[review.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if stored.Version != review.Version {
			return repository.ErrConflict
		}
		review.Version++
		st.reviews[review.ID] = cloneOf(review)
		return nil
	})
}

// ListByTrip retrieves reviews of a trip, newest first.
func (r *ReviewRepository) ListByTrip(_ context.Context, tripID string) ([]*domain.Review, error) {
	return r.filter(func(v *domain.Review) bool { return v.TripID == tripID }), nil
}

// ListByUser retrieves reviews written by a user, newest first.
func (r *ReviewRepository) ListByUser(_ context.Context, userID string) ([]*domain.Review, error) {
	return r.filter(func(v *domain.Review) bool { return v.UserID == userID }), nil
}

func (r *ReviewRepository) filter(keep func(*domain.Review) bool) []*domain.Review {
	var out []*domain.Review
	var seq map[string]int64
	r.a.read(func(st *state) {
		seq = st.order
		for _, v := range st.reviews {
			if keep(v) {
				out = append(out, cloneOf(v))
			}
		}
	})
	slices.SortFunc(out, func(a, b *domain.Review) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(seq[b.ID], seq[a.ID])
	})
	return out
}

// Ensure ReviewRepository implements repository.ReviewRepository.
var _ repository.ReviewRepository = (*ReviewRepository)(nil)
