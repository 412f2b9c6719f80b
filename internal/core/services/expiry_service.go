package services

import (
	"context"
	"log"

	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/otp"
)

// ExpiredPaymentReason is recorded on bookings cancelled by the sweep
const ExpiredPaymentReason = "Payment deadline passed"

// ExpiryService cancels overdue bookings and purges stale codes
type ExpiryService struct {
	bookingRepo repositories.BookingRepository
	codeRepo    repositories.CodeRepository
	status      *BookingStatusService
	now         Clock
}

// NewExpiryService creates a new expiry service
func NewExpiryService(
	bookingRepo repositories.BookingRepository,
	codeRepo repositories.CodeRepository,
	status *BookingStatusService,
) *ExpiryService {
	return &ExpiryService{
		bookingRepo: bookingRepo,
		codeRepo:    codeRepo,
		status:      status,
		now:         utcNow,
	}
}

// SetClock replaces the time source
func (s *ExpiryService) SetClock(now Clock) {
	s.now = now
}

// SweepOverdue cancels unpaid bookings past their payment deadline
func (s *ExpiryService) SweepOverdue(ctx context.Context) (int, error) {
	overdue, err := s.bookingRepo.ListOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, b := range overdue {
		if _, err := s.status.SetStatus(ctx, b.ID, domain.BookingStatusCancelled, ExpiredPaymentReason); err != nil {
			log.Printf("❌ Failed to expire booking %s: %v", b.ConfirmationNumber, err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("⏰ Expired %d overdue booking(s)", cancelled)
	}
	return cancelled, nil
}

// PurgeCodes deletes verification and reset codes past their TTL
func (s *ExpiryService) PurgeCodes(ctx context.Context) (int64, error) {
	n, err := s.codeRepo.PurgeOlderThan(ctx, s.now().Add(-otp.TTL))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("🗑️ Purged %d stale code(s)", n)
	}
	return n, nil
}
