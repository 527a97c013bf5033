package postgres

import (
	"context"
	"database/sql"
	"errors"

	"trek/internal/domain"
	"trek/internal/repository"
)

// RegistrationRepository is a PostgreSQL implementation of
// repository.RegistrationRepository.
type RegistrationRepository struct {
	q Querier
}

// NewRegistrationRepository creates a new PostgreSQL registration repository.
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{q: db}
}

// NewRegistrationRepositoryWithTx creates a registration repository using a transaction.
func NewRegistrationRepositoryWithTx(tx *sql.Tx) *RegistrationRepository {
	return &RegistrationRepository{q: tx}
}

const registrationColumns = `id, trip_id, user_id, status, reject_reason, registered_at, updated_at, version`

// Create persists a new registration.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
	`

	_, err := r.q.ExecContext(ctx, query,
		reg.ID,
		reg.TripID,
		reg.UserID,
		reg.Status,
		reg.RejectReason,
		reg.RegisteredAt,
		reg.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	reg.Version = 1
	return nil
}

// GetByID retrieves a registration by ID.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistrationRow(r.q.QueryRowContext(ctx, query, id))
}

// GetByTripAndUser retrieves the registration of a user for a trip.
func (r *RegistrationRepository) GetByTripAndUser(ctx context.Context, tripID, userID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE trip_id = $1 AND user_id = $2`
	return scanRegistrationRow(r.q.QueryRowContext(ctx, query, tripID, userID))
}

// Update writes the registration if the stored version matches.
func (r *RegistrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET status = $1, reject_reason = $2, updated_at = $3, version = version + 1
		WHERE id = $4 AND version = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		reg.Status,
		reg.RejectReason,
		reg.UpdatedAt,
		reg.ID,
		reg.Version,
	)
	if err != nil {
		return err
	}

	if err := checkVersioned(ctx, r.q, "registrations", reg.ID, result); err != nil {
		return err
	}

	reg.Version++
	return nil
}

// ListByTrip retrieves registrations of a trip in sign-up order.
func (r *RegistrationRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE trip_id = $1 ORDER BY registered_at`
	return r.list(ctx, query, tripID)
}

// ListByUser retrieves registrations of a user, newest first.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id = $1 ORDER BY registered_at DESC`
	return r.list(ctx, query, userID)
}

func (r *RegistrationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}

	return regs, rows.Err()
}

func scanRegistrationRow(row *sql.Row) (*domain.Registration, error) {
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func scanRegistration(s scanner) (*domain.Registration, error) {
	var reg domain.Registration
	err := s.Scan(
		&reg.ID,
		&reg.TripID,
		&reg.UserID,
		&reg.Status,
		&reg.RejectReason,
		&reg.RegisteredAt,
		&reg.UpdatedAt,
		&reg.Version,
	)
	if err != nil {
		return nil, err
	}
	reg.RegisteredAt = reg.RegisteredAt.UTC()
	reg.UpdatedAt = reg.UpdatedAt.UTC()
	return &reg, nil
}

// Ensure RegistrationRepository implements repository.RegistrationRepository.
var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)
