package memory

import (
	"cmp"
	"context"
	"slices"

	"trek/internal/domain"
	"trek/internal/repository"
)

// PorterApplicationRepository is an in-memory implementation of
// repository.PorterApplicationRepository.
type PorterApplicationRepository struct {
	a access
}

// Create persists a new application.
func (r *PorterApplicationRepository) Create(_ context.Context, app *domain.PorterApplication) error {
	return r.a.write(func(st *state) error {
		if app.Status == domain.ApplicationStatusPending {
			for _, existing := range st.applications {
				if existing.ApplicantID == app.ApplicantID && existing.Status == domain.ApplicationStatusPending {
					return repository.ErrDuplicate
				}
			}
		}
		app.Version = 1
		st.applications[app.ID] = cloneOf(app)
		st.insert(app.ID)
		return nil
	})
}

// GetByID retrieves an application by ID.
func (r *PorterApplicationRepository) GetByID(_ context.Context, id string) (*domain.PorterApplication, error) {
	var app *domain.PorterApplication
	r.a.read(func(st *state) {
		if v, ok := st.applications[id]; ok {
			app = cloneOf(v)
		}
	})
	if app == nil {
		return nil, repository.ErrNotFound
	}
	return app, nil
}

// LatestByApplicant retrieves the most recently created application of a user.
func (r *PorterApplicationRepository) LatestByApplicant(_ context.Context, applicantID string) (*domain.PorterApplication, error) {
	apps := r.filter(func(v *domain.PorterApplication) bool { return v.ApplicantID == applicantID })
	if len(apps) == 0 {
		return nil, repository.ErrNotFound
	}
	return apps[len(apps)-1], nil
}

// LockLatestByApplicant retrieves the most recent application of a user.
// Transactions are already serialized.
func (r *PorterApplicationRepository) LockLatestByApplicant(ctx context.Context, applicantID string) (*domain.PorterApplication, error) {
	return r.LatestByApplicant(ctx, applicantID)
}

// Update writes the application with a version check.
func (r *PorterApplicationRepository) Update(_ context.Context, app *domain.PorterApplication) error {
	return r.a.write(func(st *state) error {
		stored, ok := st.applications[app.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if stored.Version != app.Version {
			return repository.ErrConflict
		}
		if app.Status == domain.ApplicationStatusPending {
			for id, existing := range st.applications {
				if id != app.ID && existing.ApplicantID == app.ApplicantID && existing.Status == domain.ApplicationStatusPending {
					return repository.ErrDuplicate
				}
			}
		}
		app.Version++
		st.applications[app.ID] = cloneOf(app)
		return nil
	})
}

// ListByStatus retrieves applications in the given status, oldest first.
func (r *PorterApplicationRepository) ListByStatus(_ context.Context, status domain.ApplicationStatus) ([]*domain.PorterApplication, error) {
	return r.filter(func(v *domain.PorterApplication) bool { return v.Status == status }), nil
}

// filter returns matching applications oldest first.
func (r *PorterApplicationRepository) filter(keep func(*domain.PorterApplication) bool) []*domain.PorterApplication {
	var out []*domain.PorterApplication
	var seq map[string]int64
	r.a.read(func(st *state) {
		seq = st.order
		for _, v := range st.applications {
			if keep(v) {
				out = append(out, cloneOf(v))
			}
		}
	})
	slices.SortFunc(out, func(a, b *domain.PorterApplication) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(seq[a.ID], seq[b.ID])
	})
	return out
}

// Ensure PorterApplicationRepository implements repository.PorterApplicationRepository.
var _ repository.PorterApplicationRepository = (*PorterApplicationRepository)(nil)
