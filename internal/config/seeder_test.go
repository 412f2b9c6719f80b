package config

import (
	"testing"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/password"
	"bookit-api/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_CreatesAdminAndDorms(t *testing.T) {
	db := testfixtures.NewDB(t)
	cfg := &Config{AppMode: "dev", Seed: SeedConfig{AdminEmail: " Admin@BookIt.test ", AdminPassword: "supersecret"}}

	require.NoError(t, NewSeeder(db, cfg).Run())
	// idempotent
	require.NoError(t, NewSeeder(db, cfg).Run())

	var admins []models.User
	require.NoError(t, db.Where("role = ?", domain.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@bookit.test", admins[0].Email)
	assert.True(t, admins[0].Verified)
	assert.True(t, password.Verify("supersecret", admins[0].Password))

	var dorms int64
	require.NoError(t, db.Model(&models.Dorm{}).Count(&dorms).Error)
	assert.Equal(t, int64(3), dorms)
}

func TestSeeder_PromotesExistingUser(t *testing.T) {
	db := testfixtures.NewDB(t)
	user := testfixtures.CreateUser(t, db, "owner@bookit.test", domain.RoleStudent)
	cfg := &Config{AppMode: "prod", Seed: SeedConfig{AdminEmail: "owner@bookit.test"}}

	require.NoError(t, NewSeeder(db, cfg).Run())

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	var dorms int64
	require.NoError(t, db.Model(&models.Dorm{}).Count(&dorms).Error)
	assert.Zero(t, dorms, "sample dorms are dev only")
}

func TestSeeder_RejectsShortPassword(t *testing.T) {
	db := testfixtures.NewDB(t)
	cfg := &Config{AppMode: "prod", Seed: SeedConfig{AdminEmail: "admin@bookit.test", AdminPassword: "short"}}

	assert.Error(t, NewSeeder(db, cfg).Run())
}

func TestSeeder_SkipsWithoutEmail(t *testing.T) {
	db := testfixtures.NewDB(t)
	require.NoError(t, NewSeeder(db, &Config{AppMode: "prod"}).Run())

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
