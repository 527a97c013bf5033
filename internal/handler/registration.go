package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trek/internal/domain"
	"trek/internal/service"
)

// RegistrationHandler handles HTTP requests for trip registrations.
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register handles POST /v1/trips/:id/registrations
func (h *RegistrationHandler) Register(c *gin.Context) {
	reg, err := h.registrationService.Register(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRegistrationResponse(reg))
}

// ListForTrip handles GET /v1/trips/:id/registrations?status=
func (h *RegistrationHandler) ListForTrip(c *gin.Context) {
	status, err := domain.ParseRegistrationStatus(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	regs, err := h.registrationService.ListForTrip(c.Request.Context(), c.Param("id"), actorFrom(c), status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"registrations": toRegistrationResponses(regs),
		"count":         len(regs),
	})
}

// Approve handles POST /v1/registrations/:id/approve
func (h *RegistrationHandler) Approve(c *gin.Context) {
	reg, err := h.registrationService.Approve(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRegistrationResponse(reg))
}

// Reject handles POST /v1/registrations/:id/reject
func (h *RegistrationHandler) Reject(c *gin.Context) {
	var req ReasonRequest
	if !bindJSON(c, &req) {
		return
	}

	reg, err := h.registrationService.Reject(c.Request.Context(), c.Param("id"), actorFrom(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRegistrationResponse(reg))
}
