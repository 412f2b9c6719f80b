package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/core/domain"
)

// RecentBookingsLimit is how many bookings the dashboard shows
const RecentBookingsLimit = 5

// DashboardService handles admin dashboard and booking overview
type DashboardService struct {
	dormRepo    repositories.DormRepository
	bookingRepo repositories.BookingRepository
	userRepo    repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	dormRepo repositories.DormRepository,
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
) *DashboardService {
	return &DashboardService{
		dormRepo:    dormRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

// DashboardStats represents admin dashboard data
type DashboardStats struct {
	TotalDorms     int64            `json:"totalDorms"`
	TotalBookings  int64            `json:"totalBookings"`
	TotalUsers     int64            `json:"totalUsers"`
	RecentBookings []BookingSummary `json:"recentBookings"`
}

// BookingSummary represents one recent booking
type BookingSummary struct {
	ID                 uint                 `json:"id"`
	ConfirmationNumber string               `json:"confirmation_number"`
	UserName           string               `json:"user_name"`
	DormName           string               `json:"dorm_name"`
	Status             domain.BookingStatus `json:"status"`
	PaymentStatus      domain.PaymentStatus `json:"payment_status"`
	CreatedAt          time.Time            `json:"created_at"`
}

// GetStats returns totals and the latest bookings
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalDorms, err = s.dormRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookingRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}

	recent, err := s.bookingRepo.Recent(ctx, RecentBookingsLimit)
	if err != nil {
		return nil, err
	}

	stats.RecentBookings = make([]BookingSummary, len(recent))
	for i, b := range recent {
		stats.RecentBookings[i] = BookingSummary{
			ID:                 b.ID,
			ConfirmationNumber: b.ConfirmationNumber,
			UserName:           b.User.FullName(),
			DormName:           b.Dorm.Name,
			Status:             b.Status,
			PaymentStatus:      b.PaymentStatus,
			CreatedAt:          b.CreatedAt,
		}
	}

	return stats, nil
}

// ListBookings returns all bookings or those with one status ("" or "all" for every status)
func (s *DashboardService) ListBookings(ctx context.Context, status string) ([]*models.BookingResponse, error) {
	var filter repositories.BookingFilter

	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != "all" {
		st := domain.BookingStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: status must be all, active, pending or cancelled", domain.ErrValidation)
		}
		filter.Status = &st
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*models.BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = b.ToResponse()
	}
	return out, nil
}
