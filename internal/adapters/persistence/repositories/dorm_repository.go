package repositories

import (
	"context"

	"bookit-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type dormRepository struct {
	db *gorm.DB
}

// NewDormRepository creates a new dorm repository
func NewDormRepository(db *gorm.DB) DormRepository {
	return &dormRepository{db: db}
}

func (r *dormRepository) Create(ctx context.Context, dorm *models.Dorm) error {
	return r.db.WithContext(ctx).Create(dorm).Error
}

func (r *dormRepository) GetByID(ctx context.Context, id uint) (*models.Dorm, error) {
	var dorm models.Dorm
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dorm).Error; err != nil {
		return nil, err
	}
	return &dorm, nil
}

func applyDormFilter(q *gorm.DB, f DormFilter) *gorm.DB {
	if f.MinPrice != nil {
		q = q.Where("price_per_night >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_night <= ?", *f.MaxPrice)
	}
	if f.Capacity != nil {
		q = q.Where("capacity >= ?", *f.Capacity)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	return q
}

// List returns dorms matching the filter, newest first; total counts the filtered set
func (r *dormRepository) List(ctx context.Context, filter DormFilter, offset, limit int) ([]*models.Dorm, int64, error) {
	var dorms []*models.Dorm
	var total int64

	if err := applyDormFilter(r.db.WithContext(ctx).Model(&models.Dorm{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyDormFilter(r.db.WithContext(ctx), filter).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&dorms).Error; err != nil {
		return nil, 0, err
	}

	return dorms, total, nil
}

// Update saves all dorm fields
func (r *dormRepository) Update(ctx context.Context, dorm *models.Dorm) error {
	return r.db.WithContext(ctx).Save(dorm).Error
}

// Delete removes a dorm and its reviews
func (r *dormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dorm_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Dorm{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SetAvailability writes only the dorm's listing flag
func (r *dormRepository) SetAvailability(ctx context.Context, id uint, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.Dorm{}).Where("id = ?", id).Update("available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return rowExists(r.db.WithContext(ctx), &models.Dorm{}, id)
	}
	return nil
}

func (r *dormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dorm{}).Count(&count).Error
	return count, err
}
