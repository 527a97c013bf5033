package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"trek/internal/domain"
	"trek/internal/repository"
)

const (
	// conflictRetries bounds how often a unit of work is replayed after a
	// version conflict.
	conflictRetries = 3
	conflictBackoff = 10 * time.Millisecond
)

// Option configures a service.
type Option func(*core)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *core) { c.logger = logger }
}

// WithEvents sets the publisher that receives committed events.
func WithEvents(events EventPublisher) Option {
	return func(c *core) { c.events = events }
}

// core holds what every lifecycle service needs.
type core struct {
	store  repository.Store
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func newCore(store repository.Store, opts ...Option) core {
	c := core{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.events == nil {
		c.events = NewLogEventPublisher(c.logger)
	}
	return c
}

// run executes fn in a transaction, replaying it when a concurrent writer
// won the version check. fn must re-read everything it validates.
func (c *core) run(ctx context.Context, fn func(repository.Repos) error) error {
	backoff := retry.WithMaxRetries(conflictRetries, retry.NewConstant(conflictBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.store.WithinTx(ctx, fn)
		if errors.Is(err, repository.ErrConflict) {
			c.logger.DebugContext(ctx, "version conflict, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

// publish emits an event after commit. Delivery failures do not undo the
// committed transition.
func (c *core) publish(ctx context.Context, typ domain.EventType, entityID, status, actorID string) {
	event := domain.Event{
		Type:       typ,
		EntityID:   entityID,
		Status:     status,
		ActorID:    actorID,
		OccurredAt: c.now(),
	}
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "publish event failed",
			slog.String("type", string(typ)),
			slog.String("entity_id", entityID),
			slog.Any("error", err),
		)
	}
}

func requireActor(actor domain.Actor) error {
	if actor.Anonymous() {
		return ErrNotAuthenticated
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
