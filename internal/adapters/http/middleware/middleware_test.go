package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"bookit-api/internal/config"
	"bookit-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func newTestApp() *fiber.App {
	cfg := &config.Config{AppMode: "dev", JWT: config.JWTConfig{Secret: testSecret}}

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c), "role": Role(c)})
	})
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return assert.AnError
	})
	app.Get("/cached", CacheControl(time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func token(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.GenerateToken(7, "user@example.com", role, testSecret, ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusForbidden},
		{"expired token", "Bearer " + token(t, "student", -time.Minute), fiber.StatusForbidden},
		{"valid token", "Bearer " + token(t, "student", time.Hour), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token(t, "student", time.Hour))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token(t, "admin", time.Hour))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/staff", RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/staff", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRateLimiter_PerRoute(t *testing.T) {
	cfg := &config.Config{Limits: config.RateLimitConfig{Auth: 1}}
	limited := AuthRateLimiter(cfg)

	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Post("/signup", limited, ok)
	app.Post("/login", limited, ok)

	hit := func(path string) int {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, path, nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, hit("/signup"))
	assert.Equal(t, fiber.StatusOK, hit("/login"))
	assert.Equal(t, fiber.StatusTooManyRequests, hit("/signup"))
	assert.Equal(t, fiber.StatusTooManyRequests, hit("/login"))
}

func TestCustomErrorHandler_HidesInternalErrors(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCacheControl(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/cached", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=60", resp.Header.Get(fiber.HeaderCacheControl))
}
