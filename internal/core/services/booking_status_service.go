package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"

	"gorm.io/gorm"
)

// BookingStatusService applies admin status and payment changes
type BookingStatusService struct {
	bookingRepo repositories.BookingRepository
	dispatcher  Dispatcher
	policy      domain.CouplingPolicy
}

// NewBookingStatusService creates a new booking status service
func NewBookingStatusService(
	bookingRepo repositories.BookingRepository,
	dispatcher Dispatcher,
	cfg *config.Config,
) *BookingStatusService {
	return &BookingStatusService{
		bookingRepo: bookingRepo,
		dispatcher:  dispatcher,
		policy:      cfg.Booking.CouplingPolicy,
	}
}

func (s *BookingStatusService) load(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingStatusService) write(ctx context.Context, booking *models.Booking, fields map[string]any) (*models.Booking, error) {
	if err := s.bookingRepo.Update(ctx, booking, fields); err != nil {
		switch {
		case errors.Is(err, repositories.ErrOverlap):
			return nil, domain.ErrAvailabilityConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return s.load(ctx, booking.ID)
}

func roomOf(booking *models.Booking) string {
	if booking.RoomNumber == nil {
		return ""
	}
	return *booking.RoomNumber
}

// SetPaymentStatus records a payment status. Paid requires a room number and
// sends one payment confirmation; the booking status follows the coupling policy.
func (s *BookingStatusService) SetPaymentStatus(ctx context.Context, id uint, status domain.PaymentStatus, roomNumber string) (*models.BookingResponse, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidPaymentStatus
	}
	roomNumber = strings.TrimSpace(roomNumber)
	if status == domain.PaymentStatusPaid && roomNumber == "" {
		return nil, domain.ErrRoomNumberRequired
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == status && (status != domain.PaymentStatusPaid || roomOf(booking) == roomNumber) {
		return booking.ToResponse(), nil
	}

	fields := map[string]any{"payment_status": status}
	if status == domain.PaymentStatusPaid {
		fields["room_number"] = roomNumber
	}
	if next := s.policy.StatusAfterPayment(booking.Status, status); next != booking.Status {
		fields["status"] = next
	}

	updated, err := s.write(ctx, booking, fields)
	if err != nil {
		return nil, err
	}

	log.Printf("💳 Booking %s payment=%s status=%s", updated.ConfirmationNumber, updated.PaymentStatus, updated.Status)

	if status == domain.PaymentStatusPaid {
		dispatchAsync(ctx, s.dispatcher, domain.TemplatePaymentConfirmation, updated.User.Email, map[string]any{
			"first_name":          updated.User.FirstName,
			"dorm_name":           updated.Dorm.Name,
			"room_number":         roomNumber,
			"confirmation_number": updated.ConfirmationNumber,
			"semester":            updated.Semester.Label(),
			"academic_year":       academicYearText(updated.AcademicYear),
			"total_price":         domain.PaymentTotal(updated.Dorm.PricePerNight),
		})
	}

	return updated.ToResponse(), nil
}

// SetStatus writes a booking status. Cancelling requires a reason and sends
// one cancellation email; a cancelled booking cannot be reopened. Setting the
// current status again writes nothing and keeps the recorded reason.
func (s *BookingStatusService) SetStatus(ctx context.Context, id uint, status domain.BookingStatus, cancelReason string) (*models.BookingResponse, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidBookingStatus
	}
	cancelReason = strings.TrimSpace(cancelReason)
	if status == domain.BookingStatusCancelled && cancelReason == "" {
		return nil, domain.ErrCancelReasonRequired
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled && status != domain.BookingStatusCancelled {
		return nil, domain.ErrBookingCancelled
	}
	if booking.Status == status {
		return booking.ToResponse(), nil
	}

	fields := map[string]any{"status": status}
	if status == domain.BookingStatusCancelled {
		fields["cancel_reason"] = cancelReason
	}

	updated, err := s.write(ctx, booking, fields)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Booking %s status=%s", updated.ConfirmationNumber, updated.Status)

	if status == domain.BookingStatusCancelled {
		dispatchAsync(ctx, s.dispatcher, domain.TemplateBookingCancellation, updated.User.Email, map[string]any{
			"first_name":          updated.User.FirstName,
			"dorm_name":           updated.Dorm.Name,
			"confirmation_number": updated.ConfirmationNumber,
			"reason":              cancelReason,
		})
	}

	return updated.ToResponse(), nil
}
