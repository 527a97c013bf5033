// Package memory is an in-process implementation of repository.Store.
//
// Transactions are serialized. Each one works on a private copy of the
// tables which replaces the shared state only when the transaction succeeds.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"trek/internal/domain"
	"trek/internal/repository"
)

type state struct {
	trips         map[string]*domain.Trip
	registrations map[string]*domain.Registration
	applications  map[string]*domain.PorterApplication
	reviews       map[string]*domain.Review
	order         map[string]int64
	seq           int64
}

func (s *state) clone() *state {
	return &state{
		trips:         maps.Clone(s.trips),
		registrations: maps.Clone(s.registrations),
		applications:  maps.Clone(s.applications),
		reviews:       maps.Clone(s.reviews),
		order:         maps.Clone(s.order),
		seq:           s.seq,
	}
}

// insert records the insertion order of id so listings stay stable when
// timestamps tie.
func (s *state) insert(id string) {
	s.seq++
	s.order[id] = s.seq
}

// access hides whether repositories see the shared state or a transaction's copy.
type access interface {
	read(fn func(*state))
	write(fn func(*state) error) error
}

// Store is an in-memory repository.Store.
type Store struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		state: &state{
			trips:         make(map[string]*domain.Trip),
			registrations: make(map[string]*domain.Registration),
			applications:  make(map[string]*domain.PorterApplication),
			reviews:       make(map[string]*domain.Review),
			order:         make(map[string]int64),
		},
	}
}

// Repos returns repositories that each write in their own implicit transaction.
func (s *Store) Repos() repository.Repos {
	return reposFor(storeAccess{s})
}

// WithinTx runs fn on a private copy of the tables and publishes it on success.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	if err := fn(reposFor(txAccess{snapshot})); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = snapshot
	s.mu.Unlock()
	return nil
}

type storeAccess struct{ s *Store }

func (a storeAccess) read(fn func(*state)) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	fn(a.s.state)
}

func (a storeAccess) write(fn func(*state) error) error {
	a.s.txMu.Lock()
	defer a.s.txMu.Unlock()

	a.s.mu.RLock()
	next := a.s.state.clone()
	a.s.mu.RUnlock()

	if err := fn(next); err != nil {
		return err
	}

	a.s.mu.Lock()
	a.s.state = next
	a.s.mu.Unlock()
	return nil
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(*state)) { fn(a.st) }

func (a txAccess) write(fn func(*state) error) error { return fn(a.st) }

func reposFor(a access) repository.Repos {
	return repository.Repos{
		Trips:         &TripRepository{a: a},
		Registrations: &RegistrationRepository{a: a},
		Applications:  &PorterApplicationRepository{a: a},
		Reviews:       &ReviewRepository{a: a},
	}
}

func cloneTrip(t *domain.Trip) *domain.Trip {
	c := *t
	c.IncludedCostItems = slices.Clone(t.IncludedCostItems)
	c.AdditionalCostItems = slices.Clone(t.AdditionalCostItems)
	return &c
}

func cloneOf[T any](v *T) *T {
	c := *v
	return &c
}

// Ensure Store implements repository.Store.
var _ repository.Store = (*Store)(nil)
