package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trek/internal/service"
)

// PorterHandler handles HTTP requests for porter applications.
type PorterHandler struct {
	porterService *service.PorterService
}

// NewPorterHandler creates a new PorterHandler.
func NewPorterHandler(porterService *service.PorterService) *PorterHandler {
	return &PorterHandler{porterService: porterService}
}

// ApplyRequest is the HTTP request body for applying to become a porter.
type ApplyRequest struct {
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	ExperienceYears int    `json:"experience_years"`
	Bio             string `json:"bio"`
}

// Apply handles POST /v1/porter-applications
func (h *PorterHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.porterService.Apply(c.Request.Context(), actorFrom(c), service.ApplyRequest{
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toApplicationResponse(app))
}

// Mine handles GET /v1/porter-applications/me
func (h *PorterHandler) Mine(c *gin.Context) {
	actor := actorFrom(c)
	if actor.Anonymous() {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	app, err := h.porterService.Latest(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toApplicationResponse(app))
}

// Approve handles POST /v1/porter-applications/:id/approve
func (h *PorterHandler) Approve(c *gin.Context) {
	app, err := h.porterService.Approve(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toApplicationResponse(app))
}

// Reject handles POST /v1/porter-applications/:id/reject
func (h *PorterHandler) Reject(c *gin.Context) {
	var req ReasonRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.porterService.Reject(c.Request.Context(), c.Param("id"), actorFrom(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toApplicationResponse(app))
}

// Revoke handles POST /v1/porters/:userId/revoke
func (h *PorterHandler) Revoke(c *gin.Context) {
	app, err := h.porterService.Revoke(c.Request.Context(), c.Param("userId"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toApplicationResponse(app))
}
