package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trek/internal/service"
)

// ViewHandler serves the per-role dashboards.
type ViewHandler struct {
	projectionService *service.ProjectionService
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(projectionService *service.ProjectionService) *ViewHandler {
	return &ViewHandler{projectionService: projectionService}
}

// RegisteredTripResponse is one row of the participant view.
type RegisteredTripResponse struct {
	Trip         TripResponse         `json:"trip"`
	Registration RegistrationResponse `json:"registration"`
	HasReviewed  bool                 `json:"has_reviewed"`
}

// OrganizerTripResponse is one trip of the organizer inbox.
type OrganizerTripResponse struct {
	Trip   TripResponse `json:"trip"`
	Counts struct {
		Pending  int `json:"pending"`
		Approved int `json:"approved"`
		Rejected int `json:"rejected"`
	} `json:"registrations"`
}

// StatusGroupResponse holds the organizer's trips in one status.
type StatusGroupResponse struct {
	Status string                  `json:"status"`
	Trips  []OrganizerTripResponse `json:"trips"`
}

// MyTrips handles GET /v1/me/trips
func (h *ViewHandler) MyTrips(c *gin.Context) {
	actor := actorFrom(c)
	view, err := h.projectionService.ParticipantView(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"registrations": toRegisteredTrips(view.Registrations),
		"completed":     toRegisteredTrips(view.Completed),
	})
}

func toRegisteredTrips(rows []service.RegisteredTrip) []RegisteredTripResponse {
	out := make([]RegisteredTripResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, RegisteredTripResponse{
			Trip:         toTripResponse(row.Trip),
			Registration: toRegistrationResponse(row.Registration),
			HasReviewed:  row.HasReviewed,
		})
	}
	return out
}

// MyOrganized handles GET /v1/me/organized
func (h *ViewHandler) MyOrganized(c *gin.Context) {
	actor := actorFrom(c)
	groups, err := h.projectionService.OrganizerInbox(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]StatusGroupResponse, 0, len(groups))
	for _, g := range groups {
		group := StatusGroupResponse{Status: string(g.Status), Trips: make([]OrganizerTripResponse, 0, len(g.Trips))}
		for _, ot := range g.Trips {
			row := OrganizerTripResponse{Trip: toTripResponse(ot.Trip)}
			spots := ot.SpotsRemaining
			row.Trip.SpotsRemaining = &spots
			row.Counts.Pending = ot.Counts.Pending
			row.Counts.Approved = ot.Counts.Approved
			row.Counts.Rejected = ot.Counts.Rejected
			group.Trips = append(group.Trips, row)
		}
		out = append(out, group)
	}
	respondJSON(c, http.StatusOK, gin.H{"groups": out})
}

// AdminQueue handles GET /v1/admin/queue?type=trip|porter_application
func (h *ViewHandler) AdminQueue(c *gin.Context) {
	kind := service.QueueKind(c.DefaultQuery("type", string(service.QueueTrips)))
	queue, err := h.projectionService.AdminQueue(c.Request.Context(), actorFrom(c), kind)
	if err != nil {
		respondError(c, err)
		return
	}

	switch queue.Kind {
	case service.QueuePorterApplications:
		apps := make([]ApplicationResponse, 0, len(queue.Applications))
		for _, a := range queue.Applications {
			apps = append(apps, toApplicationResponse(a))
		}
		respondJSON(c, http.StatusOK, gin.H{"type": queue.Kind, "items": apps, "count": len(apps)})
	default:
		trips := make([]TripResponse, 0, len(queue.Trips))
		for _, t := range queue.Trips {
			trips = append(trips, toTripResponse(t))
		}
		respondJSON(c, http.StatusOK, gin.H{"type": queue.Kind, "items": trips, "count": len(trips)})
	}
}
