package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"trek/internal/identity"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	idempotencyTTL    = 24 * time.Hour
)

// storedResponse is what a replay sends back.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// replayCache keeps completed responses in Redis.
type replayCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (rc replayCache) load(ctx context.Context, key string) (*storedResponse, error) {
	data, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (rc replayCache) store(ctx context.Context, key string, resp storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return rc.client.Set(ctx, key, data, rc.ttl).Err()
}

// bodyRecorder tees the response body so it can be stored.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a mutating request
// repeats an Idempotency-Key against the same method and path. Keys are
// scoped to the authenticated actor, so it must run after AuthMiddleware.
// A nil client disables it.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	cache := replayCache{client: redisClient, ttl: idempotencyTTL}

	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if redisClient == nil || key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyKey(identity.FromContext(ctx).ID, c.Request.Method, c.Request.URL.Path, key)

		stored, err := cache.load(ctx, cacheKey)
		switch {
		case err == nil:
			if stored.ContentType != "" {
				c.Header("Content-Type", stored.ContentType)
			}
			c.Header(replayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		case !errors.Is(err, redis.Nil):
			// Cache unavailable: serve the request without replay protection.
			c.Next()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// Server errors are left uncached so the client can retry.
		status := rec.Status()
		if status < 200 || status >= 500 {
			return
		}
		_ = cache.store(context.WithoutCancel(ctx), cacheKey, storedResponse{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
	}
}

func mutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch
}

// idempotencyKey scopes key to the caller and the concrete request target,
// so reusing a key on another resource never replays a foreign response.
func idempotencyKey(actorID, method, path, key string) string {
	if actorID == "" {
		actorID = "anonymous"
	}
	return "idempotency:" + actorID + ":" + method + ":" + path + ":" + key
}
