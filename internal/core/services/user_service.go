package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/pagination"
	"bookit-api/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page  int
	Limit int
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ListUsers lists users newest first; a zero limit returns everyone
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	params := pagination.NewOptional(input.Page, input.Limit)

	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	return &ListUsersOutput{
		Users:      userResponses,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: pagination.TotalPages(total, params.Limit),
	}, nil
}

// SetUserRole changes a user's role; admins cannot change their own
func (s *UserService) SetUserRole(ctx context.Context, userID, adminID uint, role domain.Role) (*models.UserResponse, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if userID == adminID {
		return nil, domain.ErrOwnRole
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("👤 User %d role set to %s by admin %d", userID, role, adminID)
	return user.ToResponse(), nil
}

// ChangePassword changes the caller's password
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return domain.ErrWrongPassword
	}
	if !password.ValidatePassword(input.NewPassword) {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, password.MinLength)
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.Email, hashedPassword)
}
