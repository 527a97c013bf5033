package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"trek/internal/domain"
	"trek/internal/identity"
	"trek/internal/repository"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Server errors are reported to New Relic and their detail is not exposed.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		nrgin.Transaction(c).NoticeError(err)
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := ErrorResponse{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps error kinds to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrAlreadyApplied),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes the request body into dst, reporting malformed input as
// a validation error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err)))
		return false
	}
	return true
}

func actorFrom(c *gin.Context) domain.Actor {
	return identity.FromContext(c.Request.Context())
}

// ReasonRequest is the body of reject endpoints.
type ReasonRequest struct {
	Reason string `json:"reason"`
}
