package postgres

import (
	"context"
	"database/sql"
	"errors"

	"trek/internal/domain"
	"trek/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// NewReviewRepositoryWithTx creates a review repository using a transaction.
func NewReviewRepositoryWithTx(tx *sql.Tx) *ReviewRepository {
	return &ReviewRepository{q: tx}
}

const reviewColumns = `id, trip_id, user_id, organizer_id, rating, feedback, visible, created_at, version`

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
	`

	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.TripID,
		review.UserID,
		review.OrganizerID,
		review.Rating,
		review.Feedback,
		review.Visible,
		review.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	review.Version = 1
	return nil
}

// GetByID retrieves a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

// Update writes the review if the stored version matches.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `UPDATE reviews SET visible = $1, version = version + 1 WHERE id = $2 AND version = $3`

	result, err := r.q.ExecContext(ctx, query, review.Visible, review.ID, review.Version)
	if err != nil {
		return err
	}

	if err := checkVersioned(ctx, r.q, "reviews", review.ID, result); err != nil {
		return err
	}

	review.Version++
	return nil
}

// ListByTrip retrieves reviews of a trip, newest first.
func (r *ReviewRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE trip_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, tripID)
}

// ListByUser retrieves reviews written by a user, newest first.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *ReviewRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func scanReview(s scanner) (*domain.Review, error) {
	var review domain.Review
	err := s.Scan(
		&review.ID,
		&review.TripID,
		&review.UserID,
		&review.OrganizerID,
		&review.Rating,
		&review.Feedback,
		&review.Visible,
		&review.CreatedAt,
		&review.Version,
	)
	if err != nil {
		return nil, err
	}
	review.CreatedAt = review.CreatedAt.UTC()
	return &review, nil
}

// Ensure ReviewRepository implements repository.ReviewRepository.
var _ repository.ReviewRepository = (*ReviewRepository)(nil)
