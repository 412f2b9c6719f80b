package handlers

import (
	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles signup, login and password recovery
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// VerifyCodeRequest carries an email and a 6-digit code
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ForgotPasswordRequest represents forgot password request body
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// Signup starts a registration and emails a verification code
// @Summary Sign up
// @Description Store a pending registration and email a 6-digit verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "Signup data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req services.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.Signup(c.UserContext(), &req); err != nil {
		return respondError(c, err, "Failed to sign up")
	}

	return response.Success(c, "Verification code sent to your email", nil)
}

// VerifyEmail completes a registration
// @Summary Verify email
// @Description Create the account if the verification code is valid
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyCodeRequest true "Email and code"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	user, err := h.authService.VerifyEmail(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return respondError(c, err, "Failed to verify email")
	}

	return response.Created(c, "Account created successfully", user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to login")
	}

	return response.Success(c, "Login successful", result)
}

// ForgotPassword emails a reset code
// @Summary Forgot password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Account email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return respondError(c, err, "Failed to start password reset")
	}

	return response.Success(c, "Reset code sent to your email", nil)
}

// VerifyResetCode checks a reset code without consuming it
// @Summary Verify reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyCodeRequest true "Email and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/verify-reset-code [post]
func (h *AuthHandler) VerifyResetCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	if err := h.authService.VerifyResetCode(c.UserContext(), req.Email, req.Code); err != nil {
		return respondError(c, err, "Failed to verify reset code")
	}

	return response.Success(c, "Code verified", nil)
}

// ResetPassword sets a new password
// @Summary Reset password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Email, code and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Email, req.Code, req.Password); err != nil {
		return respondError(c, err, "Failed to reset password")
	}

	return response.Success(c, "Password reset successfully", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return response.Success(c, "", user)
}
