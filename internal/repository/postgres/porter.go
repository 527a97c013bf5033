package postgres

import (
	"context"
	"database/sql"
	"errors"

	"trek/internal/domain"
	"trek/internal/repository"
)

// PorterApplicationRepository is a PostgreSQL implementation of
// repository.PorterApplicationRepository.
type PorterApplicationRepository struct {
	q Querier
}

// NewPorterApplicationRepository creates a new PostgreSQL application repository.
func NewPorterApplicationRepository(db *sql.DB) *PorterApplicationRepository {
	return &PorterApplicationRepository{q: db}
}

// NewPorterApplicationRepositoryWithTx creates an application repository using a transaction.
func NewPorterApplicationRepositoryWithTx(tx *sql.Tx) *PorterApplicationRepository {
	return &PorterApplicationRepository{q: tx}
}

const applicationColumns = `
	id, applicant_id, full_name, phone, email, experience_years, bio,
	status, reject_reason, reviewer_id, reviewed_at, created_at, updated_at, version`

// Create persists a new application.
func (r *PorterApplicationRepository) Create(ctx context.Context, app *domain.PorterApplication) error {
	query := `
		INSERT INTO porter_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
	`

	_, err := r.q.ExecContext(ctx, query,
		app.ID,
		app.ApplicantID,
		app.FullName,
		app.Phone,
		app.Email,
		app.ExperienceYears,
		app.Bio,
		app.Status,
		app.RejectReason,
		app.ReviewerID,
		nullTime(app.ReviewedAt),
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	app.Version = 1
	return nil
}

// GetByID retrieves an application by ID.
func (r *PorterApplicationRepository) GetByID(ctx context.Context, id string) (*domain.PorterApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM porter_applications WHERE id = $1`
	return scanApplicationRow(r.q.QueryRowContext(ctx, query, id))
}

// LatestByApplicant retrieves the most recently created application of a user.
func (r *PorterApplicationRepository) LatestByApplicant(ctx context.Context, applicantID string) (*domain.PorterApplication, error) {
	query := `
		SELECT ` + applicationColumns + ` FROM porter_applications
		WHERE applicant_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanApplicationRow(r.q.QueryRowContext(ctx, query, applicantID))
}

// LockLatestByApplicant retrieves the most recent application of a user
// FOR UPDATE. Must run inside a transaction for the lock to hold.
func (r *PorterApplicationRepository) LockLatestByApplicant(ctx context.Context, applicantID string) (*domain.PorterApplication, error) {
	query := `
		SELECT ` + applicationColumns + ` FROM porter_applications
		WHERE applicant_id = $1
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`
	return scanApplicationRow(r.q.QueryRowContext(ctx, query, applicantID))
}

// Update writes the application if the stored version matches.
func (r *PorterApplicationRepository) Update(ctx context.Context, app *domain.PorterApplication) error {
	query := `
		UPDATE porter_applications
		SET status = $1, reject_reason = $2, reviewer_id = $3, reviewed_at = $4, updated_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		app.Status,
		app.RejectReason,
		app.ReviewerID,
		nullTime(app.ReviewedAt),
		app.UpdatedAt,
		app.ID,
		app.Version,
	)
	if err != nil {
		return mapWriteError(err)
	}

	if err := checkVersioned(ctx, r.q, "porter_applications", app.ID, result); err != nil {
		return err
	}

	app.Version++
	return nil
}

// ListByStatus retrieves applications in the given status, oldest first.
func (r *PorterApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*domain.PorterApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM porter_applications WHERE status = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.PorterApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func scanApplicationRow(row *sql.Row) (*domain.PorterApplication, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func scanApplication(s scanner) (*domain.PorterApplication, error) {
	var app domain.PorterApplication
	var reviewedAt sql.NullTime

	err := s.Scan(
		&app.ID,
		&app.ApplicantID,
		&app.FullName,
		&app.Phone,
		&app.Email,
		&app.ExperienceYears,
		&app.Bio,
		&app.Status,
		&app.RejectReason,
		&app.ReviewerID,
		&reviewedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
		&app.Version,
	)
	if err != nil {
		return nil, err
	}

	app.ReviewedAt = timeOf(reviewedAt)
	app.CreatedAt = app.CreatedAt.UTC()
	app.UpdatedAt = app.UpdatedAt.UTC()
	return &app, nil
}

// Ensure PorterApplicationRepository implements repository.PorterApplicationRepository.
var _ repository.PorterApplicationRepository = (*PorterApplicationRepository)(nil)
