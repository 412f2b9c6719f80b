package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/jwt"
	"bookit-api/internal/pkg/otp"
	"bookit-api/internal/pkg/password"
	"bookit-api/internal/pkg/validate"

	"gorm.io/gorm"
)

// AuthService handles signup, login and password reset
type AuthService struct {
	userRepo   repositories.UserRepository
	codeRepo   repositories.CodeRepository
	dispatcher Dispatcher
	cfg        *config.Config
	now        Clock
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	codeRepo repositories.CodeRepository,
	dispatcher Dispatcher,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		codeRepo:   codeRepo,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        utcNow,
	}
}

// SetClock replaces the time source
func (s *AuthService) SetClock(now Clock) {
	s.now = now
}

// SignupInput represents signup input
type SignupInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup stores a pending account and emails a verification code
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) error {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrEmailTaken
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}

	if err := s.codeRepo.UpsertVerification(ctx, &models.VerificationCode{
		Email:        input.Email,
		Code:         code,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}); err != nil {
		return err
	}

	dispatchAsync(ctx, s.dispatcher, domain.TemplateSignupVerification, input.Email, map[string]any{
		"first_name": input.FirstName,
		"code":       code,
	})

	log.Printf("✅ Signup pending verification: %s", input.Email)
	return nil
}

func (s *AuthService) checkCode(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(given))) == 1
}

// VerifyEmail creates the account once the emailed code matches
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*models.UserResponse, error) {
	email = normalizeEmail(email)

	pending, err := s.codeRepo.GetVerification(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}

	if otp.Expired(pending.CreatedAt, s.now()) {
		if err := s.codeRepo.DeleteVerification(ctx, email); err != nil {
			log.Printf("⚠️ Failed to delete expired verification code: %v", err)
		}
		return nil, domain.ErrCodeExpired
	}
	if !s.checkCode(pending.Code, code) {
		return nil, domain.ErrInvalidCode
	}

	user := &models.User{
		Email:     email,
		Password:  pending.PasswordHash,
		FirstName: pending.FirstName,
		LastName:  pending.LastName,
		Role:      domain.RoleStudent,
		Verified:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	if err := s.codeRepo.DeleteVerification(ctx, email); err != nil {
		log.Printf("⚠️ Failed to delete used verification code: %v", err)
	}

	log.Printf("✅ User verified: %s", email)
	return user.ToResponse(), nil
}

// Login authenticates a user and returns a session token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	email := normalizeEmail(input.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, string(user.Role), s.cfg.JWT.Secret, s.cfg.TokenExpiry())
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// ForgotPassword emails a reset code to a registered address
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}

	if err := s.codeRepo.UpsertReset(ctx, &models.ResetCode{
		Email:     email,
		Code:      code,
		CreatedAt: s.now(),
	}); err != nil {
		return err
	}

	dispatchAsync(ctx, s.dispatcher, domain.TemplatePasswordReset, email, map[string]any{
		"first_name": user.FirstName,
		"code":       code,
	})
	return nil
}

func (s *AuthService) checkReset(ctx context.Context, email, code string) error {
	reset, err := s.codeRepo.GetReset(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}
	if otp.Expired(reset.CreatedAt, s.now()) {
		return domain.ErrCodeExpired
	}
	if !s.checkCode(reset.Code, code) {
		return domain.ErrInvalidCode
	}
	return nil
}

// VerifyResetCode validates a reset code without consuming it
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	return s.checkReset(ctx, normalizeEmail(email), code)
}

// ResetPassword sets a new password and consumes the reset code
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if !password.ValidatePassword(newPassword) {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, password.MinLength)
	}

	if err := s.checkReset(ctx, email, code); err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := s.codeRepo.DeleteReset(ctx, email); err != nil {
		log.Printf("⚠️ Failed to delete used reset code: %v", err)
	}

	log.Printf("🔑 Password reset: %s", email)
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}
