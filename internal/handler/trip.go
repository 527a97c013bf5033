package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trek/internal/cost"
	"trek/internal/domain"
	"trek/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService       *service.TripService
	projectionService *service.ProjectionService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, projectionService *service.ProjectionService) *TripHandler {
	return &TripHandler{
		tripService:       tripService,
		projectionService: projectionService,
	}
}

// CreateTripRequest is the HTTP request body for creating a trip draft.
type CreateTripRequest struct {
	Name                 string      `json:"name"`
	Location             string      `json:"location"`
	Description          string      `json:"description"`
	Difficulty           string      `json:"difficulty"`
	DepartureDate        time.Time   `json:"departure_date"`
	RegistrationDeadline time.Time   `json:"registration_deadline"`
	DurationDays         int         `json:"duration_days"`
	MaxParticipants      int         `json:"max_participants"`
	IncludedCostItems    []cost.Item `json:"included_cost_items"`
	AdditionalCostItems  []cost.Item `json:"additional_cost_items"`
}

// EditTripRequest is the HTTP request body for a partial trip edit.
type EditTripRequest struct {
	Name                 *string     `json:"name"`
	Location             *string     `json:"location"`
	Description          *string     `json:"description"`
	Difficulty           *string     `json:"difficulty"`
	DepartureDate        *time.Time  `json:"departure_date"`
	RegistrationDeadline *time.Time  `json:"registration_deadline"`
	DurationDays         *int        `json:"duration_days"`
	MaxParticipants      *int        `json:"max_participants"`
	IncludedCostItems    []cost.Item `json:"included_cost_items"`
	AdditionalCostItems  []cost.Item `json:"additional_cost_items"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := h.tripService.CreateDraft(c.Request.Context(), actorFrom(c), service.CreateTripRequest{
		Name:                 req.Name,
		Location:             req.Location,
		Description:          req.Description,
		Difficulty:           req.Difficulty,
		DepartureDate:        req.DepartureDate,
		RegistrationDeadline: req.RegistrationDeadline,
		DurationDays:         req.DurationDays,
		MaxParticipants:      req.MaxParticipants,
		IncludedCostItems:    req.IncludedCostItems,
		AdditionalCostItems:  req.AdditionalCostItems,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// ListTrips handles GET /v1/trips
//
// Query: location, difficulty, from, to (RFC 3339 or YYYY-MM-DD), q.
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := service.ListingFilter{
		Location: c.Query("location"),
		Query:    c.Query("q"),
	}

	difficulty, err := domain.ParseDifficulty(c.Query("difficulty"))
	if err != nil {
		respondError(c, err)
		return
	}
	filter.Difficulty = difficulty

	if filter.From, err = parseDateParam(c, "from", false); err != nil {
		respondError(c, err)
		return
	}
	if filter.To, err = parseDateParam(c, "to", true); err != nil {
		respondError(c, err)
		return
	}

	summaries, err := h.projectionService.PublicListing(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	trips := make([]TripResponse, 0, len(summaries))
	for _, s := range summaries {
		trips = append(trips, toSummaryResponse(s))
	}
	respondJSON(c, http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// parseDateParam reads an RFC 3339 instant or a calendar day. A day used as
// an upper bound covers the whole day.
func parseDateParam(c *gin.Context, name string, endOfDay bool) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(name, "must be RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	summary, err := h.projectionService.TripDetail(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSummaryResponse(*summary))
}

// EditTrip handles PATCH /v1/trips/:id
func (h *TripHandler) EditTrip(c *gin.Context) {
	var req EditTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := h.tripService.Edit(c.Request.Context(), c.Param("id"), actorFrom(c), domain.TripPatch{
		Name:                 req.Name,
		Location:             req.Location,
		Description:          req.Description,
		Difficulty:           req.Difficulty,
		DepartureDate:        req.DepartureDate,
		RegistrationDeadline: req.RegistrationDeadline,
		DurationDays:         req.DurationDays,
		MaxParticipants:      req.MaxParticipants,
		IncludedCostItems:    req.IncludedCostItems,
		AdditionalCostItems:  req.AdditionalCostItems,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// SubmitTrip handles POST /v1/trips/:id/submit
func (h *TripHandler) SubmitTrip(c *gin.Context) {
	h.respondTrip(c)(h.tripService.SubmitForApproval(c.Request.Context(), c.Param("id"), actorFrom(c)))
}

// ApproveTrip handles POST /v1/trips/:id/approve
func (h *TripHandler) ApproveTrip(c *gin.Context) {
	h.respondTrip(c)(h.tripService.Approve(c.Request.Context(), c.Param("id"), actorFrom(c)))
}

// RejectTrip handles POST /v1/trips/:id/reject
func (h *TripHandler) RejectTrip(c *gin.Context) {
	var req ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondTrip(c)(h.tripService.Reject(c.Request.Context(), c.Param("id"), actorFrom(c), req.Reason))
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	h.respondTrip(c)(h.tripService.Cancel(c.Request.Context(), c.Param("id"), actorFrom(c)))
}

func (h *TripHandler) respondTrip(c *gin.Context) func(*domain.Trip, error) {
	return func(trip *domain.Trip, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, http.StatusOK, toTripResponse(trip))
	}
}
