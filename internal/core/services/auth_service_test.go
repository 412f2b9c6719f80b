package services

import (
	"context"
	"testing"
	"time"

	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/jwt"
	"bookit-api/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupCode(t *testing.T, env *testEnv, email string, n int) string {
	t.Helper()
	sent := env.mail.WaitFor(domain.TemplateSignupVerification, n, mailWait)
	require.Len(t, sent, n)
	last := sent[n-1]
	require.Equal(t, email, last.To)
	code, ok := last.Data["code"].(string)
	require.True(t, ok)
	return code
}

func TestAuthService_SignupVerifyLogin(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.authService()
	ctx := context.Background()

	err := svc.Signup(ctx, &SignupInput{Email: "  Ana@Example.com ", Password: "password123", FirstName: "Ana", LastName: "Cruz"})
	require.NoError(t, err)
	code := signupCode(t, env, "ana@example.com", 1)

	_, err = svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "no account before verification")

	_, err = svc.VerifyEmail(ctx, "ana@example.com", "000000x")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	user, err := svc.VerifyEmail(ctx, "ANA@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.True(t, user.Verified)

	// code is single use
	_, err = svc.VerifyEmail(ctx, "ana@example.com", code)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	auth, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(auth.Token, env.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = svc.Signup(ctx, &SignupInput{Email: "ana@example.com", Password: "password123", FirstName: "Ana", LastName: "Cruz"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.FirstName)
}

func TestAuthService_SignupValidation(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.authService()

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"bad email", SignupInput{Email: "ana", Password: "password123", FirstName: "Ana", LastName: "Cruz"}},
		{"short password", SignupInput{Email: "ana@example.com", Password: "short", FirstName: "Ana", LastName: "Cruz"}},
		{"blank name", SignupInput{Email: "ana@example.com", Password: "password123", FirstName: "  ", LastName: "Cruz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			assert.ErrorIs(t, svc.Signup(context.Background(), &input), domain.ErrValidation)
		})
	}
}

func TestAuthService_ResignupReplacesCode(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.authService()
	ctx := context.Background()

	input := func() *SignupInput {
		return &SignupInput{Email: "ana@example.com", Password: "password123", FirstName: "Ana", LastName: "Cruz"}
	}
	require.NoError(t, svc.Signup(ctx, input()))
	first := signupCode(t, env, "ana@example.com", 1)
	require.NoError(t, svc.Signup(ctx, input()))
	second := signupCode(t, env, "ana@example.com", 2)

	if first != second {
		_, err := svc.VerifyEmail(ctx, "ana@example.com", first)
		assert.ErrorIs(t, err, domain.ErrInvalidCode)
	}
	_, err := svc.VerifyEmail(ctx, "ana@example.com", second)
	assert.NoError(t, err)
}

func TestAuthService_VerificationExpiry(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.authService()
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, &SignupInput{Email: "ana@example.com", Password: "password123", FirstName: "Ana", LastName: "Cruz"}))
	code := signupCode(t, env, "ana@example.com", 1)

	env.clock.Advance(10*time.Minute + time.Second)

	_, err := svc.VerifyEmail(ctx, "ana@example.com", code)
	assert.ErrorIs(t, err, domain.ErrCodeExpired)

	// the expired record is gone
	_, err = env.codes.GetVerification(ctx, "ana@example.com")
	assert.Error(t, err)
	_, err = svc.VerifyEmail(ctx, "ana@example.com", code)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestAuthService_PasswordReset(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.authService()
	ctx := context.Background()
	testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)

	assert.ErrorIs(t, svc.ForgotPassword(ctx, "nobody@example.com"), domain.ErrUserNotFound)
	assert.ErrorIs(t, svc.ForgotPassword(ctx, " "), domain.ErrValidation)

	require.NoError(t, svc.ForgotPassword(ctx, "Ana@example.com"))
	sent := env.mail.WaitFor(domain.TemplatePasswordReset, 1, mailWait)
	require.Len(t, sent, 1)
	code := sent[0].Data["code"].(string)

	assert.ErrorIs(t, svc.VerifyResetCode(ctx, "ana@example.com", "bad"), domain.ErrInvalidCode)
	require.NoError(t, svc.VerifyResetCode(ctx, "ana@example.com", code))

	assert.ErrorIs(t, svc.ResetPassword(ctx, "ana@example.com", code, "short"), domain.ErrValidation)
	require.NoError(t, svc.ResetPassword(ctx, "ana@example.com", code, "new-password"))

	_, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "new-password"})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "ana@example.com", code, "another-password"), domain.ErrInvalidCode)
}

func TestAuthService_ResetCodeExpiry(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.authService()
	ctx := context.Background()
	testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)

	require.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))
	code := env.mail.WaitFor(domain.TemplatePasswordReset, 1, mailWait)[0].Data["code"].(string)

	env.clock.Advance(11 * time.Minute)
	assert.ErrorIs(t, svc.VerifyResetCode(ctx, "ana@example.com", code), domain.ErrCodeExpired)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "ana@example.com", code, "new-password"), domain.ErrCodeExpired)
}
