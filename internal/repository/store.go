package repository

import "context"

// Repos groups the repositories that share one connection or transaction.
type Repos struct {
	Trips         TripRepository
	Registrations RegistrationRepository
	Applications  PorterApplicationRepository
	Reviews       ReviewRepository
}

// Store is the keyed entity store behind every lifecycle operation.
type Store interface {
	// Repos returns repositories that operate outside any transaction.
	Repos() Repos

	// WithinTx runs fn against transaction-scoped repositories. Writes made
	// by fn are committed only when fn returns nil.
	WithinTx(ctx context.Context, fn func(Repos) error) error
}
