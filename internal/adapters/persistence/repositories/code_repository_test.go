package repositories

import (
	"context"
	"testing"
	"time"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCodeRepository_UpsertReplaces(t *testing.T) {
	db := testfixtures.NewDB(t)
	repo := NewCodeRepository(db)
	ctx := context.Background()
	now := testfixtures.ReferenceTime()

	require.NoError(t, repo.UpsertVerification(ctx, &models.VerificationCode{Email: "ana@example.com", Code: "111111", FirstName: "Ana", CreatedAt: now}))
	require.NoError(t, repo.UpsertVerification(ctx, &models.VerificationCode{Email: "ana@example.com", Code: "222222", FirstName: "Ana", CreatedAt: now.Add(time.Minute)}))

	got, err := repo.GetVerification(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)

	var count int64
	require.NoError(t, db.Model(&models.VerificationCode{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.DeleteVerification(ctx, "ana@example.com"))
	_, err = repo.GetVerification(ctx, "ana@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCodeRepository_PurgeOlderThan(t *testing.T) {
	db := testfixtures.NewDB(t)
	repo := NewCodeRepository(db)
	ctx := context.Background()
	now := testfixtures.ReferenceTime()

	require.NoError(t, repo.UpsertVerification(ctx, &models.VerificationCode{Email: "old@example.com", Code: "111111", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.UpsertVerification(ctx, &models.VerificationCode{Email: "new@example.com", Code: "222222", CreatedAt: now}))
	require.NoError(t, repo.UpsertReset(ctx, &models.ResetCode{Email: "old@example.com", Code: "333333", CreatedAt: now.Add(-time.Hour)}))

	n, err := repo.PurgeOlderThan(ctx, now.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = repo.GetVerification(ctx, "new@example.com")
	assert.NoError(t, err)
	_, err = repo.GetReset(ctx, "old@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
