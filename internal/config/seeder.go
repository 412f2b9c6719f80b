package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if s.cfg.IsDev() {
		if err := s.seedSampleDorms(); err != nil {
			return fmt.Errorf("seed dorms: %w", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the SEED_ADMIN_EMAIL account once.
// An existing account with that email is promoted instead.
func (s *Seeder) seedAdminUser() error {
	email := strings.ToLower(strings.TrimSpace(s.cfg.Seed.AdminEmail))
	if email == "" {
		return nil
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			return nil
		}
		log.Printf("🔑 Promoting %s to admin", email)
		return s.db.Model(&existing).Update("role", domain.RoleAdmin).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if !password.ValidatePassword(s.cfg.Seed.AdminPassword) {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be at least %d characters", password.MinLength)
	}
	hashed, err := password.Hash(s.cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "BookIt",
		LastName:  "Admin",
		Role:      domain.RoleAdmin,
		Verified:  true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedSampleDorms fills an empty catalog for local development
func (s *Seeder) seedSampleDorms() error {
	var count int64
	if err := s.db.Model(&models.Dorm{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dorms := []models.Dorm{
		{
			Name:          "Acacia Hall",
			Description:   "Quiet four-bed rooms a short walk from the main gate.",
			Capacity:      4,
			PricePerNight: 100,
			Available:     true,
		},
		{
			Name:          "Narra Residences",
			Description:   "Two-bed rooms with a private bath and study desk.",
			Capacity:      2,
			PricePerNight: 180,
			Available:     true,
		},
		{
			Name:          "Molave Dormitory",
			Description:   "Shared six-bed rooms, common kitchen and laundry area.",
			Capacity:      6,
			PricePerNight: 75,
			Available:     true,
		},
	}

	if err := s.db.Create(&dorms).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d sample dorms", len(dorms))
	return nil
}
