package handlers

import (
	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/pagination"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// SetUserRoleRequest represents the role change body
type SetUserRoleRequest struct {
	Role domain.Role `json:"role"`
}

// ListUsers handles listing users (Admin only)
// @Summary List users
// @Description Newest first. Without a limit every user is returned.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := pagination.Query(c)

	input := &services.ListUsersInput{
		Page:  page,
		Limit: limit,
	}

	result, err := h.userService.ListUsers(c.UserContext(), input)
	if err != nil {
		return respondError(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// SetUserRole handles setting user role (Admin only)
// @Summary Set user role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetUserRoleRequest true "student or admin"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/admin/users/{id}/role [patch]
func (h *UserHandler) SetUserRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetUserRole(c.UserContext(), id, middleware.UserID(c), req.Role)
	if err != nil {
		return respondError(c, err, "Failed to set user role")
	}

	return response.Success(c, "User role updated successfully", user)
}

// ChangePassword handles password change for the current user
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "old_password and new_password are required")
	}

	if err := h.userService.ChangePassword(c.UserContext(), middleware.UserID(c), &req); err != nil {
		return respondError(c, err, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}
