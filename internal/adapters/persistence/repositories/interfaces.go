package repositories

import (
	"context"
	"time"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

// CodeRepository stores signup verification and password reset codes
type CodeRepository interface {
	UpsertVerification(ctx context.Context, code *models.VerificationCode) error
	GetVerification(ctx context.Context, email string) (*models.VerificationCode, error)
	DeleteVerification(ctx context.Context, email string) error
	UpsertReset(ctx context.Context, code *models.ResetCode) error
	GetReset(ctx context.Context, email string) (*models.ResetCode, error)
	DeleteReset(ctx context.Context, email string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DormFilter narrows the public catalog list
type DormFilter struct {
	MinPrice  *float64
	MaxPrice  *float64
	Capacity  *int
	Available *bool
}

// DormRepository defines dorm repository interface
type DormRepository interface {
	Create(ctx context.Context, dorm *models.Dorm) error
	GetByID(ctx context.Context, id uint) (*models.Dorm, error)
	List(ctx context.Context, filter DormFilter, offset, limit int) ([]*models.Dorm, int64, error)
	Update(ctx context.Context, dorm *models.Dorm) error
	Delete(ctx context.Context, id uint) error
	SetAvailability(ctx context.Context, id uint, available bool) error
	Count(ctx context.Context) (int64, error)
}

// BookingFilter narrows admin booking lists
type BookingFilter struct {
	Status *domain.BookingStatus
}

// BookingRepository defines booking repository interface
type BookingRepository interface {
	// CreateIfAvailable locks the dorm, checks for an overlapping active
	// booking and inserts in a single transaction
	CreateIfAvailable(ctx context.Context, booking *models.Booking) error
	HasActiveOverlap(ctx context.Context, dormID uint, start, end time.Time, excludeID uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*models.Booking, error)
	Recent(ctx context.Context, limit int) ([]*models.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByDorm(ctx context.Context, dormID uint) (int64, error)
	// Update writes fields; a status of active re-runs the overlap check under the dorm lock
	Update(ctx context.Context, booking *models.Booking, fields map[string]any) error
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Booking, error)
}

// ReviewRepository defines review repository interface
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByDorm(ctx context.Context, dormID uint) ([]*models.Review, error)
	Summary(ctx context.Context, dormID uint) (avg *float64, count int64, err error)
}
