package services

import (
	"context"
	"testing"

	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/password"
	"bookit-api/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListUsers(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := NewUserService(env.users)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		testfixtures.CreateUser(t, env.db, email, domain.RoleStudent)
	}

	all, err := svc.ListUsers(ctx, &ListUsersInput{})
	require.NoError(t, err)
	assert.Len(t, all.Users, 3)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, 1, all.TotalPages)

	page, err := svc.ListUsers(ctx, &ListUsersInput{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUserService_SetUserRole(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := NewUserService(env.users)
	ctx := context.Background()

	admin := testfixtures.CreateUser(t, env.db, "admin@example.com", domain.RoleAdmin)
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)

	_, err := svc.SetUserRole(ctx, user.ID, admin.ID, "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.SetUserRole(ctx, admin.ID, admin.ID, domain.RoleStudent)
	assert.ErrorIs(t, err, domain.ErrOwnRole)

	_, err = svc.SetUserRole(ctx, 999, admin.ID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	promoted, err := svc.SetUserRole(ctx, user.ID, admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	// same role again is not an error
	_, err = svc.SetUserRole(ctx, user.ID, admin.ID, domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := NewUserService(env.users)
	ctx := context.Background()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)

	err := svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{OldPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{OldPassword: "password123", NewPassword: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{OldPassword: "password123", NewPassword: "new-password"}))

	stored, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, password.Verify("new-password", stored.Password))
}
