package services

import (
	"context"
	"errors"
	"strings"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/core/domain"

	"gorm.io/gorm"
)

// ReviewService handles dorm reviews. Any authenticated user may review any dorm.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	dormRepo   repositories.DormRepository
	userRepo   repositories.UserRepository
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	dormRepo repositories.DormRepository,
	userRepo repositories.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		dormRepo:   dormRepo,
		userRepo:   userRepo,
	}
}

// ReviewInput represents review input
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *ReviewService) ensureDorm(ctx context.Context, dormID uint) error {
	if _, err := s.dormRepo.GetByID(ctx, dormID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDormNotFound
		}
		return err
	}
	return nil
}

// Add appends a review
func (s *ReviewService) Add(ctx context.Context, dormID, userID uint, input *ReviewInput) (*models.ReviewResponse, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if err := s.ensureDorm(ctx, dormID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	review := &models.Review{
		DormID:  dormID,
		UserID:  userID,
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	review.User = *user
	return review.ToResponse(), nil
}

// ListByDorm returns a dorm's reviews newest first
func (s *ReviewService) ListByDorm(ctx context.Context, dormID uint) ([]*models.ReviewResponse, error) {
	if err := s.ensureDorm(ctx, dormID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByDorm(ctx, dormID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = r.ToResponse()
	}
	return out, nil
}
