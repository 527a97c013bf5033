package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"trek/internal/domain"
	"trek/internal/repository"
)

// TripRepository is an in-memory implementation of repository.TripRepository.
type TripRepository struct {
	a access
}

// Create persists a new trip.
func (r *TripRepository) Create(_ context.Context, trip *domain.Trip) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.trips[trip.ID]; ok {
			return repository.ErrDuplicate
		}
		trip.Version = 1
		st.trips[trip.ID] = cloneTrip(trip)
		st.insert(trip.ID)
		return nil
	})
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(_ context.Context, id string) (*domain.Trip, error) {
	var trip *domain.Trip
	r.a.read(func(st *state) {
		if t, ok := st.trips[id]; ok {
			trip = cloneTrip(t)
		}
	})
	if trip == nil {
		return nil, repository.ErrNotFound
	}
	return trip, nil
}

// LockByID retrieves a trip. Transactions are already serialized.
func (r *TripRepository) LockByID(ctx context.Context, id string) (*domain.Trip, error) {
	return r.GetByID(ctx, id)
}

// Update writes the trip with a version check.
func (r *TripRepository) Update(_ context.Context, trip *domain.Trip) error {
	return r.a.write(func(st *state) error {
		stored, ok := st.trips[trip.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if stored.Version != trip.Version {
			return repository.ErrConflict
		}
		trip.Version++
		st.trips[trip.ID] = cloneTrip(trip)
		return nil
	})
}

// ListByStatus retrieves trips in the given status, ordered by departure date.
func (r *TripRepository) ListByStatus(_ context.Context, status domain.TripStatus) ([]*domain.Trip, error) {
	trips := r.filter(func(t *domain.Trip) bool { return t.Status == status }, byDeparture)
	return trips, nil
}

// ListByOrganizer retrieves every trip of an organizer, newest first.
func (r *TripRepository) ListByOrganizer(_ context.Context, organizerID string) ([]*domain.Trip, error) {
	trips := r.filter(func(t *domain.Trip) bool { return t.OrganizerID == organizerID }, func(a, b *domain.Trip) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return trips, nil
}

// ListDepartedBefore retrieves approved trips departing at or before t.
func (r *TripRepository) ListDepartedBefore(_ context.Context, t time.Time) ([]*domain.Trip, error) {
	trips := r.filter(func(trip *domain.Trip) bool {
		return trip.Status == domain.TripStatusApproved && !trip.DepartureDate.After(t)
	}, byDeparture)
	return trips, nil
}

func (r *TripRepository) filter(keep func(*domain.Trip) bool, order func(a, b *domain.Trip) int) []*domain.Trip {
	var out []*domain.Trip
	var seq map[string]int64
	r.a.read(func(st *state) {
		seq = st.order
		for _, t := range st.trips {
			if keep(t) {
				out = append(out, cloneTrip(t))
			}
		}
	})
	slices.SortFunc(out, func(a, b *domain.Trip) int {
		if c := order(a, b); c != 0 {
			return c
		}
		return cmp.Compare(seq[a.ID], seq[b.ID])
	})
	return out
}

func byDeparture(a, b *domain.Trip) int {
	return a.DepartureDate.Compare(b.DepartureDate)
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
