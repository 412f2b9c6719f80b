package routes

import (
	"time"

	"bookit-api/internal/adapters/http/handlers"
	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/config"
	"bookit-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services holds every business service, built once at startup
type Services struct {
	Auth          *services.AuthService
	User          *services.UserService
	Dorm          *services.DormService
	Booking       *services.BookingService
	BookingStatus *services.BookingStatusService
	Review        *services.ReviewService
	Dashboard     *services.DashboardService
	Contact       *services.ContactService
	Expiry        *services.ExpiryService
}

// NewServices wires repositories into services
func NewServices(db *gorm.DB, cfg *config.Config, dispatcher services.Dispatcher, media services.MediaStore) *Services {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewCodeRepository(db)
	dormRepo := repositories.NewDormRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	statusService := services.NewBookingStatusService(bookingRepo, dispatcher, cfg)

	return &Services{
		Auth:          services.NewAuthService(userRepo, codeRepo, dispatcher, cfg),
		User:          services.NewUserService(userRepo),
		Dorm:          services.NewDormService(dormRepo, bookingRepo, reviewRepo, media, cfg),
		Booking:       services.NewBookingService(bookingRepo, dormRepo, userRepo, media, dispatcher, cfg),
		BookingStatus: statusService,
		Review:        services.NewReviewService(reviewRepo, dormRepo, userRepo),
		Dashboard:     services.NewDashboardService(dormRepo, bookingRepo, userRepo),
		Contact:       services.NewContactService(dispatcher, cfg.Notify.ContactInbox),
		Expiry:        services.NewExpiryService(bookingRepo, codeRepo, statusService),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *Services) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.User)
	dormHandler := handlers.NewDormHandler(svc.Dorm)
	bookingHandler := handlers.NewBookingHandler(svc.Booking, svc.BookingStatus)
	reviewHandler := handlers.NewReviewHandler(svc.Review)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	contactHandler := handlers.NewContactHandler(svc.Contact)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.AdminOnly()

	setupAuthRoutes(api, authHandler, userHandler, auth, cfg)
	setupDormRoutes(api, dormHandler, bookingHandler, reviewHandler, auth, admin)
	setupBookingRoutes(api, bookingHandler, auth, admin)

	api.Post("/contact", middleware.AuthRateLimiter(cfg), contactHandler.Submit)

	// Admin routes
	adminRoutes := api.Group("/admin", auth, admin)
	setupAdminRoutes(adminRoutes, dormHandler, bookingHandler, dashboardHandler, userHandler)
}

// setupAuthRoutes configures signup, login, password recovery and account routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, u *handlers.UserHandler, auth fiber.Handler, cfg *config.Config) {
	limited := middleware.AuthRateLimiter(cfg)
	noStore := middleware.NoStore()

	router.Post("/signup", limited, noStore, h.Signup)
	router.Post("/verify-email", limited, noStore, h.VerifyEmail)
	router.Post("/login", limited, noStore, h.Login)
	router.Post("/forgot-password", limited, noStore, h.ForgotPassword)
	router.Post("/verify-reset-code", limited, noStore, h.VerifyResetCode)
	router.Post("/reset-password", limited, noStore, h.ResetPassword)

	router.Get("/me", auth, noStore, h.Me)
	router.Put("/me/password", auth, limited, u.ChangePassword)
}

// setupDormRoutes configures the public catalog and dorm-scoped actions
func setupDormRoutes(
	router fiber.Router,
	dorms *handlers.DormHandler,
	bookings *handlers.BookingHandler,
	reviews *handlers.ReviewHandler,
	auth, admin fiber.Handler,
) {
	router.Get("/dorms", middleware.CacheControl(30*time.Second), dorms.List)
	router.Get("/dorms/:id", dorms.Get)
	router.Get("/dorms/:id/reviews", reviews.List)
	router.Get("/dorms/:id/availability", bookings.Availability)

	router.Post("/dorms/:id/bookings", auth, bookings.CreateForDorm)
	router.Post("/dorms/:id/reviews", auth, reviews.Add)

	router.Post("/dorms", auth, admin, dorms.Create)
	router.Put("/dorms/:id", auth, admin, dorms.Update)
	router.Delete("/dorms/:id", auth, admin, dorms.Delete)
	router.Patch("/dorms/:id/availability", auth, admin, dorms.SetAvailability)
}

// setupBookingRoutes configures the flat booking routes
func setupBookingRoutes(router fiber.Router, h *handlers.BookingHandler, auth, admin fiber.Handler) {
	router.Post("/bookings", auth, h.Create)
	router.Get("/bookings/user", auth, h.ListMine)
	router.Post("/bookings/:id/payment-proof", auth, h.UploadPaymentProof)

	router.Patch("/bookings/:id/payment", auth, admin, h.SetPaymentStatus)
	router.Patch("/bookings/:id", auth, admin, h.SetStatus)
}

// setupAdminRoutes configures routes under /api/admin (Admin only)
func setupAdminRoutes(
	router fiber.Router,
	dorms *handlers.DormHandler,
	bookings *handlers.BookingHandler,
	dashboard *handlers.DashboardHandler,
	users *handlers.UserHandler,
) {
	router.Get("/dashboard-stats", dashboard.GetStats)

	router.Get("/bookings", dashboard.ListBookings)
	router.Patch("/bookings/:id/payment", bookings.SetPaymentStatus)
	router.Patch("/bookings/:id", bookings.SetStatus)

	router.Get("/users", users.ListUsers)
	router.Patch("/users/:id/role", users.SetUserRole)

	router.Get("/dorms", dorms.List)
	router.Post("/dorms", dorms.Create)
	router.Put("/dorms/:id", dorms.Update)
	router.Delete("/dorms/:id", dorms.Delete)
	router.Delete("/dorms/:id/images", dorms.RemoveImage)
}
