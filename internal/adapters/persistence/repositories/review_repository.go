package repositories

import (
	"context"

	"bookit-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User", "Dorm").Create(review).Error
}

// ListByDorm returns reviews newest first with their authors
func (r *reviewRepository) ListByDorm(ctx context.Context, dormID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("dorm_id = ?", dormID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

// Summary returns the average rating (nil without reviews) and review count
func (r *reviewRepository) Summary(ctx context.Context, dormID uint) (*float64, int64, error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("dorm_id = ?", dormID).
		Scan(&row).Error
	if err != nil {
		return nil, 0, err
	}
	return row.Avg, row.Count, nil
}
