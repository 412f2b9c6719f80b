package handlers

import (
	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles dorm reviews
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List returns a dorm's reviews newest first
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Param id path int true "Dorm ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/dorms/{id}/reviews [get]
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	dormID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	reviews, err := h.reviewService.ListByDorm(c.UserContext(), dormID)
	if err != nil {
		return respondError(c, err, "Failed to fetch reviews")
	}

	return response.Success(c, "", reviews)
}

// Add posts a review
// @Summary Add review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dorm ID"
// @Param body body services.ReviewInput true "Rating 1-5 and comment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/dorms/{id}/reviews [post]
func (h *ReviewHandler) Add(c *fiber.Ctx) error {
	dormID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	var req services.ReviewInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	review, err := h.reviewService.Add(c.UserContext(), dormID, middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err, "Failed to add review")
	}

	return response.Created(c, "Review added successfully", review)
}
