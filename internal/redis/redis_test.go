package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trek/internal/domain"
)

// newTestClient connects to TEST_REDIS_ADDR and skips when it is unset.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestLockStore(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	name := "test-" + uuid.NewString()

	first := NewLockStore(client)
	second := NewLockStore(client)

	ok, err := first.Acquire(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// Only the owner can release.
	require.NoError(t, second.Release(ctx, name))
	ok, err = second.Acquire(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Release(ctx, name))
	ok, err = second.Acquire(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Release(ctx, name))
}

func TestEventStream(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	stream := "test-events-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), stream) })

	occurred := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	err := NewEventStream(client, stream, 100).Publish(ctx, domain.Event{
		Type:       domain.EventTripApproved,
		EntityID:   "t1",
		Status:     "APPROVED",
		ActorID:    "admin",
		OccurredAt: occurred,
	})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "TripApproved", msgs[0].Values["type"])
	assert.Equal(t, "t1", msgs[0].Values["entity_id"])
	assert.Equal(t, occurred.Format(time.RFC3339Nano), msgs[0].Values["occurred_at"])
}
