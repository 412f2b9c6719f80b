package handlers

import (
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles admin overview endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats returns admin dashboard counters and recent bookings
// @Summary Dashboard stats
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/admin/dashboard-stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to get dashboard stats")
	}

	return response.Success(c, "", stats)
}

// ListBookings returns every booking with user and dorm details
// @Summary List bookings
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "all, active, pending or cancelled"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/admin/bookings [get]
func (h *DashboardHandler) ListBookings(c *fiber.Ctx) error {
	bookings, err := h.dashboardService.ListBookings(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, err, "Failed to fetch bookings")
	}

	return response.Success(c, "", bookings)
}
