package service

import (
	"context"
	"errors"
	"log/slog"

	"trek/internal/domain"
)

// EventPublisher delivers committed workflow events to the notification channel.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// LogEventPublisher writes events to a structured log.
type LogEventPublisher struct {
	logger *slog.Logger
}

// NewLogEventPublisher creates a new LogEventPublisher.
func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.InfoContext(ctx, "domain event",
		slog.String("type", string(event.Type)),
		slog.String("entity_id", event.EntityID),
		slog.String("status", event.Status),
		slog.String("actor_id", event.ActorID),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

// FallbackPublisher tries primary first and hands the event to fallback
// when primary fails.
type FallbackPublisher struct {
	primary  EventPublisher
	fallback EventPublisher
}

// NewFallbackPublisher creates a new FallbackPublisher.
func NewFallbackPublisher(primary, fallback EventPublisher) *FallbackPublisher {
	return &FallbackPublisher{primary: primary, fallback: fallback}
}

// Publish delivers the event to primary or, failing that, to fallback.
func (p *FallbackPublisher) Publish(ctx context.Context, event domain.Event) error {
	err := p.primary.Publish(ctx, event)
	if err == nil {
		return nil
	}
	if ferr := p.fallback.Publish(ctx, event); ferr != nil {
		return errors.Join(err, ferr)
	}
	return nil
}
