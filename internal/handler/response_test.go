package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"trek/internal/domain"
	"trek/internal/identity"
	"trek/internal/repository"
	"trek/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("name", "is required"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.NewValidationError("rating", "out of range")), http.StatusBadRequest},
		{service.ErrNotAuthenticated, http.StatusUnauthorized},
		{identity.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrNotAdmin, http.StatusForbidden},
		{service.ErrNotOrganizer, http.StatusForbidden},
		{service.ErrTripNotFound, http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrTripNotOpen, http.StatusConflict},
		{service.ErrAlreadyRegistered, http.StatusConflict},
		{service.ErrApplicationPending, http.StatusConflict},
		{service.ErrAlreadyReviewed, http.StatusConflict},
		{service.ErrTripFull, http.StatusConflict},
		{service.ErrRegistrationClosed, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapErrorToHTTPStatus(tt.err), tt.err.Error())
	}
}
