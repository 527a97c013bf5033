package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trek/internal/service"
)

// ReviewHandler handles HTTP requests for trip reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest is the HTTP request body for reviewing a trip.
type CreateReviewRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// VisibilityRequest is the HTTP request body for hiding or showing a review.
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// Create handles POST /v1/trips/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), c.Param("id"), actorFrom(c), service.CreateReviewRequest{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toReviewResponse(review))
}

// ListForTrip handles GET /v1/trips/:id/reviews
func (h *ReviewHandler) ListForTrip(c *gin.Context) {
	reviews, err := h.reviewService.ListForTrip(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	respondJSON(c, http.StatusOK, gin.H{"reviews": out, "count": len(out)})
}

// SetVisibility handles POST /v1/reviews/:id/visibility
func (h *ReviewHandler) SetVisibility(c *gin.Context) {
	var req VisibilityRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.SetVisibility(c.Request.Context(), c.Param("id"), actorFrom(c), req.Visible)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReviewResponse(review))
}
