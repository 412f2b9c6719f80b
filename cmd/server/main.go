package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/adapters/http/routes"
	"bookit-api/internal/adapters/media"
	"bookit-api/internal/adapters/notify"
	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/config"
	"bookit-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "bookit-api/docs" // Swagger docs
)

// @title BookIt API
// @version 1.0
// @description Dormitory booking API: catalog, semester bookings, payments and reviews.

// @contact.name API Support
// @contact.email support@bookit.test

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	dispatcher, err := notify.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to set up notifications: %v", err)
	}
	defer dispatcher.Close()

	store, err := media.New(cfg.Media)
	if err != nil {
		log.Fatalf("❌ Failed to set up media storage: %v", err)
	}

	svc := routes.NewServices(db, cfg, dispatcher, store)

	// Payment deadline sweep and code purge
	cronService := services.NewCronService(svc.Expiry, cfg.Cron)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BookIt API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    25 * 1024 * 1024, // several 5MB images per dorm form
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, svc)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
