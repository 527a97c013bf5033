package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trek/internal/domain"
	"trek/internal/identity"
)

// TokenVerifier resolves a bearer token into an actor.
type TokenVerifier interface {
	Verify(token string) (domain.Actor, error)
}

// PorterResolver reports whether a user currently holds the porter capability.
type PorterResolver interface {
	IsPorter(ctx context.Context, userID string) (bool, error)
}

// AuthMiddleware resolves the caller from the Authorization header and
// stores it on the request context. Requests without a header continue
// anonymously; a bad token is rejected with 401.
//
// The porter capability is taken from the store, never from the token.
func AuthMiddleware(verifier TokenVerifier, porters PorterResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		actor, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		actor = actor.WithoutCapability(domain.CapabilityPorter)
		porter, err := porters.IsPorter(ctx, actor.ID)
		if err != nil {
			logger.ErrorContext(ctx, "resolve porter capability", slog.String("user_id", actor.ID), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if porter {
			actor = actor.WithCapability(domain.CapabilityPorter)
		}

		c.Request = c.Request.WithContext(identity.WithActor(ctx, actor))
		c.Next()
	}
}
