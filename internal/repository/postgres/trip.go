package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"trek/internal/domain"
	"trek/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `
	id, organizer_id, name, location, description, difficulty,
	departure_date, registration_deadline, duration_days, max_participants,
	included_cost_items, additional_cost_items, estimated_price,
	status, reject_reason, submitted_at, created_at, updated_at, version`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1)
	`

	included, additional, err := marshalItems(trip)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		trip.ID,
		trip.OrganizerID,
		trip.Name,
		trip.Location,
		trip.Description,
		trip.Difficulty,
		nullTime(trip.DepartureDate),
		nullTime(trip.RegistrationDeadline),
		trip.DurationDays,
		trip.MaxParticipants,
		included,
		additional,
		trip.EstimatedPrice,
		trip.Status,
		trip.RejectReason,
		nullTime(trip.SubmittedAt),
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	trip.Version = 1
	return nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return scanTripRow(r.q.QueryRowContext(ctx, query, id))
}

// LockByID retrieves a trip with SELECT ... FOR UPDATE.
func (r *TripRepository) LockByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`
	return scanTripRow(r.q.QueryRowContext(ctx, query, id))
}

// Update writes the trip if the stored version matches.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET name = $1, location = $2, description = $3, difficulty = $4,
			departure_date = $5, registration_deadline = $6, duration_days = $7, max_participants = $8,
			included_cost_items = $9, additional_cost_items = $10, estimated_price = $11,
			status = $12, reject_reason = $13, submitted_at = $14, updated_at = $15,
			version = version + 1
		WHERE id = $16 AND version = $17
	`

	included, additional, err := marshalItems(trip)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.Name,
		trip.Location,
		trip.Description,
		trip.Difficulty,
		nullTime(trip.DepartureDate),
		nullTime(trip.RegistrationDeadline),
		trip.DurationDays,
		trip.MaxParticipants,
		included,
		additional,
		trip.EstimatedPrice,
		trip.Status,
		trip.RejectReason,
		nullTime(trip.SubmittedAt),
		trip.UpdatedAt,
		trip.ID,
		trip.Version,
	)
	if err != nil {
		return err
	}

	if err := checkVersioned(ctx, r.q, "trips", trip.ID, result); err != nil {
		return err
	}

	trip.Version++
	return nil
}

// ListByStatus retrieves trips in the given status, ordered by departure date.
func (r *TripRepository) ListByStatus(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = $1 ORDER BY departure_date, created_at`
	return r.list(ctx, query, status)
}

// ListByOrganizer retrieves every trip of an organizer, newest first.
func (r *TripRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE organizer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, organizerID)
}

// ListDepartedBefore retrieves approved trips departing at or before t.
func (r *TripRepository) ListDepartedBefore(ctx context.Context, t time.Time) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE status = $1 AND departure_date <= $2
		ORDER BY departure_date
	`
	return r.list(ctx, query, domain.TripStatusApproved, t)
}

func (r *TripRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func scanTripRow(row *sql.Row) (*domain.Trip, error) {
	trip, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var trip domain.Trip
	var departure, deadline, submitted sql.NullTime
	var included, additional []byte

	err := s.Scan(
		&trip.ID,
		&trip.OrganizerID,
		&trip.Name,
		&trip.Location,
		&trip.Description,
		&trip.Difficulty,
		&departure,
		&deadline,
		&trip.DurationDays,
		&trip.MaxParticipants,
		&included,
		&additional,
		&trip.EstimatedPrice,
		&trip.Status,
		&trip.RejectReason,
		&submitted,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&trip.Version,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(included, &trip.IncludedCostItems); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(additional, &trip.AdditionalCostItems); err != nil {
		return nil, err
	}

	trip.DepartureDate = timeOf(departure)
	trip.RegistrationDeadline = timeOf(deadline)
	trip.SubmittedAt = timeOf(submitted)
	trip.CreatedAt = trip.CreatedAt.UTC()
	trip.UpdatedAt = trip.UpdatedAt.UTC()

	return &trip, nil
}

// marshalItems encodes cost items as JSON text; lib/pq would send []byte as bytea.
func marshalItems(trip *domain.Trip) (included, additional string, err error) {
	inc := trip.IncludedCostItems
	if inc == nil {
		inc = []domain.CostItem{}
	}
	add := trip.AdditionalCostItems
	if add == nil {
		add = []domain.CostItem{}
	}
	inJSON, err := json.Marshal(inc)
	if err != nil {
		return "", "", err
	}
	addJSON, err := json.Marshal(add)
	if err != nil {
		return "", "", err
	}
	return string(inJSON), string(addJSON), nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
