package redis

import (
	"context"
	"time"

	"trek/internal/domain"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// EventPublisherInterface defines the interface for publishing domain events.
type EventPublisherInterface interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface      = (*LockStore)(nil)
	_ EventPublisherInterface = (*EventStream)(nil)
)
