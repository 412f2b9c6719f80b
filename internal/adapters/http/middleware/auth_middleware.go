package middleware

import (
	"errors"
	"strings"

	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/jwt"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
)

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthMiddleware verifies the bearer token.
// A missing token is 401; an invalid or expired one is 403.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Forbidden(c, "Access token expired")
			}
			return response.Forbidden(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// RequireRole allows only the listed roles
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		if role == "" {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, r := range allowed {
			if role == r {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// UserID returns the authenticated user's id, or 0
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// Role returns the authenticated user's role
func Role(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals(LocalRole).(string)
	return domain.Role(role)
}
