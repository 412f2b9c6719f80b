package repositories

import (
	"context"
	"time"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/core/domain"

	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// lockDorm takes the per-dorm lock that serializes availability decisions
func lockDorm(tx *gorm.DB, dormID uint) error {
	var dorm models.Dorm
	return forUpdate(tx).Select("id").Where("id = ?", dormID).First(&dorm).Error
}

func activeOverlap(tx *gorm.DB, dormID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Booking{}).
		Where("dorm_id = ? AND status = ?", dormID, domain.BookingStatusActive).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateIfAvailable returns ErrOverlap, gorm.ErrRecordNotFound for a missing
// dorm, or gorm.ErrDuplicatedKey when the confirmation number is taken
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDorm(tx, booking.DormID); err != nil {
			return err
		}

		clash, err := activeOverlap(tx, booking.DormID, booking.StartDate, booking.EndDate, 0)
		if err != nil {
			return err
		}
		if clash {
			return ErrOverlap
		}

		return translate(tx.Omit("User", "Dorm").Create(booking).Error)
	})
}

func (r *bookingRepository) HasActiveOverlap(ctx context.Context, dormID uint, start, end time.Time, excludeID uint) (bool, error) {
	return activeOverlap(r.db.WithContext(ctx), dormID, start, end, excludeID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Preload("User").Preload("Dorm").Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).Preload("Dorm").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*models.Booking, error) {
	var bookings []*models.Booking
	q := r.db.WithContext(ctx).Preload("User").Preload("Dorm")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Recent(ctx context.Context, limit int) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).Preload("User").Preload("Dorm").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountByDorm(ctx context.Context, dormID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("dorm_id = ?", dormID).Count(&count).Error
	return count, err
}

// Update writes the given columns. Moving a booking to active is checked
// against other active bookings on the dorm under the same lock as creation.
func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking, fields map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if status, ok := fields["status"].(domain.BookingStatus); ok && status == domain.BookingStatusActive {
			if err := lockDorm(tx, booking.DormID); err != nil {
				return err
			}
			clash, err := activeOverlap(tx, booking.DormID, booking.StartDate, booking.EndDate, booking.ID)
			if err != nil {
				return err
			}
			if clash {
				return ErrOverlap
			}
		}

		res := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return rowExists(tx, &models.Booking{}, booking.ID)
		}
		return nil
	})
}

// ListOverdue returns unpaid, uncancelled bookings whose deadline has passed
func (r *bookingRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).Preload("User").Preload("Dorm").
		Where("payment_status = ?", domain.PaymentStatusUnpaid).
		Where("status <> ?", domain.BookingStatusCancelled).
		Where("payment_deadline < ?", now).
		Order("payment_deadline ASC").
		Find(&bookings).Error
	return bookings, err
}
