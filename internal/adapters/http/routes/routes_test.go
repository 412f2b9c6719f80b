package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/jwt"
	"bookit-api/internal/testfixtures"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "routes_test_secret"

type testServer struct {
	app  *fiber.App
	db   *gorm.DB
	cfg  *config.Config
	mail *testfixtures.FakeDispatcher
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: testSecret, ExpiryHours: 24},
		Booking: config.BookingConfig{
			CouplingPolicy:         domain.PessimisticPending,
			PaymentDeadline:        48 * time.Hour,
			ConfirmationMaxAttempt: 5,
		},
		Notify: config.NotifyConfig{Driver: "log", ContactInbox: "inbox@bookit.test"},
		Media:  config.MediaConfig{Folder: "bookit/dorms"},
	}

	db := testfixtures.NewDB(t)
	mail := &testfixtures.FakeDispatcher{}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg, NewServices(db, cfg, mail, &testfixtures.FakeMediaStore{}))

	return &testServer{app: app, db: db, cfg: cfg, mail: mail}
}

func (s *testServer) token(t *testing.T, id uint, email string, role domain.Role) string {
	t.Helper()
	tok, err := jwt.GenerateToken(id, email, string(role), testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSignupVerifyLogin(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"email":     "Ana@Example.com",
		"password":  "password123",
		"firstName": "Ana",
		"lastName":  "Santos",
	})
	require.Equal(t, fiber.StatusOK, status, env.Error)

	mails := s.mail.WaitFor(domain.TemplateSignupVerification, 1, time.Second)
	require.Len(t, mails, 1)
	assert.Equal(t, "ana@example.com", mails[0].To)
	code, _ := mails[0].Data["code"].(string)
	require.Len(t, code, 6)

	status, env = s.do(t, http.MethodPost, "/api/verify-email", "", map[string]string{"email": "ana@example.com", "code": "000000x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, env.Error)

	status, _ = s.do(t, http.MethodPost, "/api/verify-email", "", map[string]string{"email": "ana@example.com", "code": code})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = s.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ana@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = s.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ana@example.com", "password": "password123"})
	require.Equal(t, fiber.StatusOK, status)

	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "student", login.User.Role)

	status, _ = s.do(t, http.MethodGet, "/api/me", login.Token, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)
	student := testfixtures.CreateUser(t, s.db, "student@example.com", domain.RoleStudent)

	status, env := s.do(t, http.MethodGet, "/api/bookings/user", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.NotEmpty(t, env.Error)

	status, _ = s.do(t, http.MethodGet, "/api/bookings/user", "not-a-token", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	tok := s.token(t, student.ID, student.Email, domain.RoleStudent)
	status, _ = s.do(t, http.MethodGet, "/api/admin/dashboard-stats", tok, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPatch, "/api/bookings/1/payment", tok, map[string]string{"payment_status": "paid"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := testfixtures.CreateUser(t, s.db, "admin@example.com", domain.RoleAdmin)
	ana := testfixtures.CreateUser(t, s.db, "ana@example.com", domain.RoleStudent)
	ben := testfixtures.CreateUser(t, s.db, "ben@example.com", domain.RoleStudent)

	adminTok := s.token(t, admin.ID, admin.Email, domain.RoleAdmin)
	anaTok := s.token(t, ana.ID, ana.Email, domain.RoleStudent)
	benTok := s.token(t, ben.ID, ben.Email, domain.RoleStudent)

	// admin creates a dorm with a JSON body
	status, env := s.do(t, http.MethodPost, "/api/admin/dorms", adminTok, map[string]any{
		"name":            "Acacia Hall",
		"description":     "Near the gate",
		"capacity":        4,
		"price_per_night": 100,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	var dorm struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dorm))

	bookingPath := fmt.Sprintf("/api/dorms/%d/bookings", dorm.ID)
	body := map[string]any{"start_date": "2024-08-01", "end_date": "2024-12-28", "semester": "1", "academicYear": 2024}

	status, env = s.do(t, http.MethodPost, bookingPath, anaTok, body)
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	var created struct {
		BookingID          uint   `json:"bookingId"`
		ConfirmationNumber string `json:"confirmation_number"`
		Status             string `json:"status"`
		PaymentStatus      string `json:"payment_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "unpaid", created.PaymentStatus)
	assert.True(t, domain.IsConfirmationNumber(created.ConfirmationNumber))
	assert.Len(t, s.mail.WaitFor(domain.TemplateBookingConfirmation, 1, time.Second), 1)

	paymentPath := fmt.Sprintf("/api/admin/bookings/%d/payment", created.BookingID)

	status, _ = s.do(t, http.MethodPatch, paymentPath, adminTok, map[string]string{"payment_status": "paid"})
	assert.Equal(t, fiber.StatusBadRequest, status, "room number is required")

	status, env = s.do(t, http.MethodPatch, paymentPath, adminTok, map[string]string{"payment_status": "paid", "room_number": "204"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Len(t, s.mail.WaitFor(domain.TemplatePaymentConfirmation, 1, time.Second), 1)

	// the paid booking is active now, so an overlapping request conflicts
	overlap := map[string]any{"dorm_id": dorm.ID, "start_date": "2024-12-01", "end_date": "2025-01-15"}
	status, env = s.do(t, http.MethodPost, "/api/bookings", benTok, overlap)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.NotEmpty(t, env.Error)

	status, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/dorms/%d/availability?start_date=2024-09-01&end_date=2024-09-30", dorm.ID), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var availability struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &availability))
	assert.False(t, availability.Available)

	status, env = s.do(t, http.MethodGet, "/api/bookings/user", anaTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var mine []struct {
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
		DormName    string  `json:"dorm_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "active", mine[0].Status)
	assert.Equal(t, 15000.0, mine[0].TotalAmount)
	assert.Equal(t, "Acacia Hall", mine[0].DormName)

	statusPath := fmt.Sprintf("/api/bookings/%d", created.BookingID)

	status, _ = s.do(t, http.MethodPatch, statusPath, adminTok, map[string]string{"status": "cancelled"})
	assert.Equal(t, fiber.StatusBadRequest, status, "cancel reason is required")

	status, _ = s.do(t, http.MethodPatch, statusPath, adminTok, map[string]string{"status": "cancelled", "cancelReason": "Duplicate request"})
	require.Equal(t, fiber.StatusOK, status)

	cancels := s.mail.WaitFor(domain.TemplateBookingCancellation, 1, time.Second)
	require.Len(t, cancels, 1)
	assert.Equal(t, "Duplicate request", cancels[0].Data["reason"])

	// cancelled is terminal
	status, _ = s.do(t, http.MethodPatch, statusPath, adminTok, map[string]string{"status": "active"})
	assert.Equal(t, fiber.StatusConflict, status)

	// the interval is free again
	status, _ = s.do(t, http.MethodPost, "/api/bookings", benTok, overlap)
	assert.Equal(t, fiber.StatusCreated, status)

	status, env = s.do(t, http.MethodGet, "/api/admin/dashboard-stats", adminTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats struct {
		TotalDorms    int64 `json:"totalDorms"`
		TotalBookings int64 `json:"totalBookings"`
		TotalUsers    int64 `json:"totalUsers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalDorms)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.TotalUsers)
}

func TestDormCatalogAndReviews(t *testing.T) {
	s := newTestServer(t)
	student := testfixtures.CreateUser(t, s.db, "student@example.com", domain.RoleStudent)
	tok := s.token(t, student.ID, student.Email, domain.RoleStudent)

	cheap := testfixtures.CreateDorm(t, s.db, "Cheap Hall", 2, 50)
	testfixtures.CreateDorm(t, s.db, "Pricey Hall", 6, 500)

	status, env := s.do(t, http.MethodGet, "/api/dorms?maxPrice=100", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var page struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Cheap Hall", page.Data[0].Name)
	assert.Equal(t, int64(1), page.Meta.Total)

	status, _ = s.do(t, http.MethodGet, "/api/dorms?maxPrice=abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/dorms/999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	reviewPath := fmt.Sprintf("/api/dorms/%d/reviews", cheap.ID)

	status, _ = s.do(t, http.MethodPost, reviewPath, tok, map[string]any{"rating": 6, "comment": "too good"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, reviewPath, tok, map[string]any{"rating": 4, "comment": "Clean and quiet"})
	require.Equal(t, fiber.StatusCreated, status)

	status, env = s.do(t, http.MethodGet, reviewPath, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var reviews []struct {
		Rating    int    `json:"rating"`
		FirstName string `json:"first_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
}

func TestContactForm(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Ben", "email": "not-an-email", "message": "Hi"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Ben", "email": "ben@example.com", "message": "Is there parking?"})
	require.Equal(t, fiber.StatusOK, status)

	mails := s.mail.WaitFor(domain.TemplateContactForm, 1, time.Second)
	require.Len(t, mails, 1)
	assert.Equal(t, "inbox@bookit.test", mails[0].To)
}
