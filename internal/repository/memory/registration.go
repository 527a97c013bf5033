package memory

import (
	"cmp"
	"context"
	"slices"

	"trek/internal/domain"
	"trek/internal/repository"
)

// RegistrationRepository is an in-memory implementation of
// repository.RegistrationRepository.
type RegistrationRepository struct {
	a access
}

// Create persists a new registration.
func (r *RegistrationRepository) Create(_ context.Context, reg *domain.Registration) error {
	return r.a.write(func(st *state) error {
		for _, existing := range st.registrations {
			if existing.TripID == reg.TripID && existing.UserID == reg.UserID {
				return repository.ErrDuplicate
			}
		}
		reg.Version = 1
		st.registrations[reg.ID] = cloneOf(reg)
		st.insert(reg.ID)
		return nil
	})
}

// GetByID retrieves a registration by ID.
func (r *RegistrationRepository) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	var reg *domain.Registration
	r.a.read(func(st *state) {
		if v, ok := st.registrations[id]; ok {
			reg = cloneOf(v)
		}
	})
	if reg == nil {
		return nil, repository.ErrNotFound
	}
	return reg, nil
}

// GetByTripAndUser retrieves the registration of a user for a trip.
func (r *RegistrationRepository) GetByTripAndUser(_ context.Context, tripID, userID string) (*domain.Registration, error) {
	regs := r.filter(func(v *domain.Registration) bool { return v.TripID == tripID && v.UserID == userID }, false)
	if len(regs) == 0 {
		return nil, repository.ErrNotFound
	}
	return regs[0], nil
}

// Update writes the registration with a version check.
func (r *RegistrationRepository) Update(_ context.Context, reg *domain.Registration) error {
	return r.a.write(func(st *state) error {
		stored, ok := st.registrations[reg.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if stored.Version != reg.Version {
			return repository.ErrConflict
		}
		reg.Version++
		st.registrations[reg.ID] = cloneOf(reg)
		return nil
	})
}

// ListByTrip retrieves registrations of a trip in sign-up order.
func (r *RegistrationRepository) ListByTrip(_ context.Context, tripID string) ([]*domain.Registration, error) {
	return r.filter(func(v *domain.Registration) bool { return v.TripID == tripID }, false), nil
}

// ListByUser retrieves registrations of a user, newest first.
func (r *RegistrationRepository) ListByUser(_ context.Context, userID string) ([]*domain.Registration, error) {
	return r.filter(func(v *domain.Registration) bool { return v.UserID == userID }, true), nil
}

func (r *RegistrationRepository) filter(keep func(*domain.Registration) bool, newestFirst bool) []*domain.Registration {
	var out []*domain.Registration
	var seq map[string]int64
	r.a.read(func(st *state) {
		seq = st.order
		for _, v := range st.registrations {
			if keep(v) {
				out = append(out, cloneOf(v))
			}
		}
	})
	slices.SortFunc(out, func(a, b *domain.Registration) int {
		c := a.RegisteredAt.Compare(b.RegisteredAt)
		if c == 0 {
			c = cmp.Compare(seq[a.ID], seq[b.ID])
		}
		if newestFirst {
			return -c
		}
		return c
	})
	return out
}

// Ensure RegistrationRepository implements repository.RegistrationRepository.
var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)
