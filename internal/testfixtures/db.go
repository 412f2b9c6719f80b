package testfixtures

import (
	"path/filepath"
	"testing"
	"time"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/password"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temporary directory.
// A single connection serializes writers the way a row lock would.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "bookit.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	// keep bcrypt cheap in tests
	password.Cost = password.MinCost

	return db
}

// CreateUser inserts a verified user with password "password123"
func CreateUser(tb testing.TB, db *gorm.DB, email string, role domain.Role) *models.User {
	tb.Helper()

	hash, err := password.Hash("password123")
	if err != nil {
		tb.Fatalf("hash: %v", err)
	}
	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Verified:  true,
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("create user: %v", err)
	}
	return user
}

// CreateDorm inserts an available dorm
func CreateDorm(tb testing.TB, db *gorm.DB, name string, capacity int, price float64) *models.Dorm {
	tb.Helper()

	dorm := &models.Dorm{
		Name:          name,
		Description:   name + " description",
		Capacity:      capacity,
		PricePerNight: price,
		Available:     true,
	}
	if err := db.Create(dorm).Error; err != nil {
		tb.Fatalf("create dorm: %v", err)
	}
	return dorm
}
