package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trek/internal/domain"
)

// EventStream appends domain events to a Redis stream for the notification
// workers.
type EventStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewEventStream creates a new EventStream. maxLen caps the stream
// approximately; zero leaves it unbounded.
func NewEventStream(client *redis.Client, stream string, maxLen int64) *EventStream {
	return &EventStream{client: client, stream: stream, maxLen: maxLen}
}

// Publish adds the event with XADD.
func (s *EventStream) Publish(ctx context.Context, event domain.Event) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":        string(event.Type),
			"entity_id":   event.EntityID,
			"status":      event.Status,
			"actor_id":    event.ActorID,
			"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
