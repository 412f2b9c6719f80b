package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"bookit-api/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Booking  BookingConfig
	Cron     CronConfig
	Notify   NotifyConfig
	SMTP     SMTPConfig
	Kafka    KafkaConfig
	Media    MediaConfig
	Seed     SeedConfig
	Limits   RateLimitConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql, postgres, sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite only
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// BookingConfig holds booking engine rules
type BookingConfig struct {
	CouplingPolicy         domain.CouplingPolicy
	PaymentDeadline        time.Duration
	ConfirmationMaxAttempt int
}

// CronConfig holds background job schedules
type CronConfig struct {
	ExpirySweepEnabled bool
	ExpirySweepSpec    string
	CodeCleanupSpec    string
}

// NotifyConfig selects the notification driver
type NotifyConfig struct {
	Driver       string // smtp, kafka, log
	ContactInbox string
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// KafkaConfig holds notification event bus settings
type KafkaConfig struct {
	Broker   string
	Topic    string
	GroupID  string
	Username string
	Password string
}

// MediaConfig holds Cloudinary settings
type MediaConfig struct {
	CloudinaryURL string
	Folder        string
}

// SeedConfig holds the optional first admin account
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// RateLimitConfig holds per-IP request limits per minute; 0 disables a limiter
type RateLimitConfig struct {
	General int
	Auth    int
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	booking, err := loadBookingConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "5000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Booking:  booking,
		Cron:     loadCronConfig(),
		Notify:   loadNotifyConfig(),
		SMTP:     loadSMTPConfig(),
		Kafka:    loadKafkaConfig(),
		Media: MediaConfig{
			CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
			Folder:        getEnv("CLOUDINARY_FOLDER", "bookit/dorms"),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
		Limits: RateLimitConfig{
			General: getEnvInt("RATE_LIMIT_MAX", 100),
			Auth:    getEnvInt("AUTH_RATE_LIMIT_MAX", 5),
		},
	}

	switch config.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql', 'postgres' or 'sqlite')", config.Database.Driver)
	}

	switch config.Notify.Driver {
	case "smtp", "kafka", "log":
	default:
		return nil, fmt.Errorf("invalid NOTIFY_DRIVER: '%s' (must be 'smtp', 'kafka' or 'log')", config.Notify.Driver)
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, POLICY: %s]", appMode, booking.CouplingPolicy)
	return config, nil
}

// modePrefix returns the env prefix for the mode
func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:   strings.ToLower(getEnv(prefix+"DB_DRIVER", "mysql")),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "bookit_db"),
		Path:     getEnv(prefix+"DB_PATH", "bookit.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	return JWTConfig{
		Secret:      getEnv(modePrefix(mode)+"JWT_SECRET", "default_secret"),
		ExpiryHours: getEnvInt("TOKEN_EXPIRY_HOURS", 24),
	}
}

func loadBookingConfig() (BookingConfig, error) {
	policy, err := domain.ParseCouplingPolicy(getEnv("BOOKING_COUPLING_POLICY", "pessimistic"))
	if err != nil {
		return BookingConfig{}, err
	}

	attempts := getEnvInt("CONFIRMATION_MAX_ATTEMPTS", 5)
	if attempts < 1 {
		attempts = 1
	}

	return BookingConfig{
		CouplingPolicy:         policy,
		PaymentDeadline:        time.Duration(getEnvInt("PAYMENT_DEADLINE_HOURS", 48)) * time.Hour,
		ConfirmationMaxAttempt: attempts,
	}, nil
}

func loadCronConfig() CronConfig {
	enabled, _ := strconv.ParseBool(getEnv("EXPIRY_SWEEP_ENABLED", "false"))

	return CronConfig{
		ExpirySweepEnabled: enabled,
		ExpirySweepSpec:    getEnv("EXPIRY_SWEEP_CRON", "@every 15m"),
		CodeCleanupSpec:    getEnv("CODE_CLEANUP_CRON", "@every 10m"),
	}
}

func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Driver:       strings.ToLower(getEnv("NOTIFY_DRIVER", "log")),
		ContactInbox: getEnv("CONTACT_INBOX", getEnv("SMTP_FROM", "")),
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     getEnv("SMTP_HOST", "mail.privateemail.com"),
		Port:     getEnvInt("SMTP_PORT", 465),
		User:     getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", getEnv("SMTP_USER", "")),
		FromName: getEnv("SMTP_FROM_NAME", "BookIt"),
	}
}

func loadKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:   getEnv("KAFKA_BROKER", ""),
		Topic:    getEnv("KAFKA_TOPIC", "bookit.mail"),
		GroupID:  getEnv("KAFKA_GROUP_ID", "bookit-mailer"),
		Username: getEnv("KAFKA_USERNAME", ""),
		Password: getEnv("KAFKA_PASSWORD", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// TokenExpiry returns the session token lifetime
func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5173"
	}
	return origins
}
