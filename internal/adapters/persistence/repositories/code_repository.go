package repositories

import (
	"context"
	"time"

	"bookit-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type codeRepository struct {
	db *gorm.DB
}

// NewCodeRepository creates a repository for verification and reset codes
func NewCodeRepository(db *gorm.DB) CodeRepository {
	return &codeRepository{db: db}
}

// UpsertVerification replaces any pending signup for the same email
func (r *codeRepository) UpsertVerification(ctx context.Context, code *models.VerificationCode) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "first_name", "last_name", "password_hash", "created_at"}),
	}).Create(code).Error
}

func (r *codeRepository) GetVerification(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) DeleteVerification(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.VerificationCode{}).Error
}

// UpsertReset replaces any pending reset for the same email
func (r *codeRepository) UpsertReset(ctx context.Context, code *models.ResetCode) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "created_at"}),
	}).Create(code).Error
}

func (r *codeRepository) GetReset(ctx context.Context, email string) (*models.ResetCode, error) {
	var code models.ResetCode
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) DeleteReset(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.ResetCode{}).Error
}

// PurgeOlderThan deletes verification and reset codes created before cutoff
func (r *codeRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("created_at < ?", cutoff).Delete(&models.VerificationCode{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected

		res = tx.Where("created_at < ?", cutoff).Delete(&models.ResetCode{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	return total, err
}
