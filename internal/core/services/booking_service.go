package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingService creates bookings and answers availability questions
type BookingService struct {
	bookingRepo repositories.BookingRepository
	dormRepo    repositories.DormRepository
	userRepo    repositories.UserRepository
	media       MediaStore
	dispatcher  Dispatcher
	rules       config.BookingConfig
	proofFolder string
	now         Clock
	newNumber   func() (string, error)
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	dormRepo repositories.DormRepository,
	userRepo repositories.UserRepository,
	media MediaStore,
	dispatcher Dispatcher,
	cfg *config.Config,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		dormRepo:    dormRepo,
		userRepo:    userRepo,
		media:       media,
		dispatcher:  dispatcher,
		rules:       cfg.Booking,
		proofFolder: strings.TrimSuffix(cfg.Media.Folder, "/dorms") + "/payments",
		now:         utcNow,
		newNumber:   domain.NewConfirmationNumber,
	}
}

// SetClock replaces the time source
func (s *BookingService) SetClock(now Clock) {
	s.now = now
}

// SetConfirmationGenerator replaces the confirmation number source
func (s *BookingService) SetConfirmationGenerator(gen func() (string, error)) {
	s.newNumber = gen
}

// CreateBookingInput represents a booking request
type CreateBookingInput struct {
	DormID       uint   `json:"dorm_id"`
	UserID       uint   `json:"-"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Semester     string `json:"semester"`
	AcademicYear int    `json:"academicYear"`
}

// CreateBookingResult is returned to the requester
type CreateBookingResult struct {
	BookingID          uint                 `json:"bookingId"`
	ConfirmationNumber string               `json:"confirmation_number"`
	Status             domain.BookingStatus `json:"status"`
	PaymentStatus      domain.PaymentStatus `json:"payment_status"`
	PaymentDeadline    time.Time            `json:"payment_deadline"`
	StartDate          string               `json:"start_date"`
	EndDate            string               `json:"end_date"`
}

// resolveRange validates the request and returns the booked interval.
// Sent dates are used as-is; without dates the semester window is used.
func resolveRange(input *CreateBookingInput) (time.Time, time.Time, error) {
	semester := domain.Semester(strings.TrimSpace(input.Semester))
	if semester != "" && !semester.Valid() {
		return time.Time{}, time.Time{}, domain.ErrInvalidSemester
	}
	if input.AcademicYear != 0 {
		if err := domain.ValidateAcademicYear(input.AcademicYear); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if strings.TrimSpace(input.StartDate) == "" && strings.TrimSpace(input.EndDate) == "" {
		if semester == "" || input.AcademicYear == 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date and end_date, or semester and academicYear, are required", domain.ErrValidation)
		}
		return domain.SemesterWindow(semester, input.AcademicYear)
	}

	start, err := domain.ParseDate(input.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := domain.ParseDate(input.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

// Create books a dorm for an interval. The availability check and the
// insert run in one transaction; confirmation collisions are retried.
func (s *BookingService) Create(ctx context.Context, input *CreateBookingInput) (*CreateBookingResult, error) {
	start, end, err := resolveRange(input)
	if err != nil {
		return nil, err
	}

	dorm, err := s.dormRepo.GetByID(ctx, input.DormID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDormNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	policy := s.rules.CouplingPolicy
	var booking *models.Booking

	for attempt := 1; attempt <= s.rules.ConfirmationMaxAttempt; attempt++ {
		number, err := s.newNumber()
		if err != nil {
			return nil, err
		}

		createdAt := s.now()
		candidate := &models.Booking{
			UserID:             user.ID,
			DormID:             dorm.ID,
			StartDate:          start,
			EndDate:            end,
			Semester:           domain.Semester(strings.TrimSpace(input.Semester)),
			AcademicYear:       input.AcademicYear,
			Status:             policy.InitialStatus(),
			PaymentStatus:      policy.InitialPaymentStatus(),
			PaymentDeadline:    domain.PaymentDeadline(createdAt, s.rules.PaymentDeadline),
			ConfirmationNumber: number,
			CreatedAt:          createdAt,
		}

		err = s.bookingRepo.CreateIfAvailable(ctx, candidate)
		switch {
		case err == nil:
			booking = candidate
		case errors.Is(err, repositories.ErrOverlap):
			return nil, domain.ErrAvailabilityConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, domain.ErrDormNotFound
		case repositories.IsDuplicate(err):
			log.Printf("⚠️ Confirmation number %s taken (attempt %d/%d)", number, attempt, s.rules.ConfirmationMaxAttempt)
			continue
		default:
			return nil, fmt.Errorf("create booking: %w", err)
		}
		break
	}

	if booking == nil {
		return nil, domain.ErrConfirmationExhausted
	}

	log.Printf("✅ Booking %s created: dorm=%d user=%d %s..%s [%s]",
		booking.ConfirmationNumber, dorm.ID, user.ID,
		domain.FormatDate(start), domain.FormatDate(end), booking.Status)

	dispatchAsync(ctx, s.dispatcher, domain.TemplateBookingConfirmation, user.Email, map[string]any{
		"first_name":          user.FirstName,
		"dorm_name":           dorm.Name,
		"confirmation_number": booking.ConfirmationNumber,
		"semester":            booking.Semester.Label(),
		"academic_year":       academicYearText(booking.AcademicYear),
		"start_date":          domain.FormatDate(booking.StartDate),
		"end_date":            domain.FormatDate(booking.EndDate),
		"total_price":         domain.BookingTotal(dorm.PricePerNight),
		"payment_deadline":    domain.FormatDeadline(booking.PaymentDeadline),
	})

	return &CreateBookingResult{
		BookingID:          booking.ID,
		ConfirmationNumber: booking.ConfirmationNumber,
		Status:             booking.Status,
		PaymentStatus:      booking.PaymentStatus,
		PaymentDeadline:    booking.PaymentDeadline,
		StartDate:          domain.FormatDate(booking.StartDate),
		EndDate:            domain.FormatDate(booking.EndDate),
	}, nil
}

func academicYearText(year int) string {
	if year == 0 {
		return ""
	}
	return domain.AcademicYearLabel(year)
}

// Availability is the answer for one dorm and interval
type Availability struct {
	DormID    uint   `json:"dorm_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

// CheckAvailability reports whether no active booking overlaps the interval.
// The dorm's listing flag is not consulted.
func (s *BookingService) CheckAvailability(ctx context.Context, dormID uint, startDate, endDate string) (*Availability, error) {
	start, err := domain.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}

	if _, err := s.dormRepo.GetByID(ctx, dormID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDormNotFound
		}
		return nil, err
	}

	clash, err := s.bookingRepo.HasActiveOverlap(ctx, dormID, start, end, 0)
	if err != nil {
		return nil, err
	}

	return &Availability{
		DormID:    dormID,
		StartDate: domain.FormatDate(start),
		EndDate:   domain.FormatDate(end),
		Available: !clash,
	}, nil
}

// ListForUser returns the caller's bookings with dorm details and totals
func (s *BookingService) ListForUser(ctx context.Context, userID uint) ([]*models.BookingResponse, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = b.ToResponse()
	}
	return out, nil
}

// UploadPaymentProof stores the owner's receipt; unpaid moves to pending review
func (s *BookingService) UploadPaymentProof(ctx context.Context, bookingID, userID uint, file ImageFile) (*models.BookingResponse, error) {
	if err := ValidateImage(file); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrNotBookingOwner
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrBookingCancelled
	}

	url, err := s.media.Upload(ctx, s.proofFolder, booking.ConfirmationNumber+"-"+uuid.NewString(), file.Reader)
	if err != nil {
		log.Printf("❌ Payment proof upload failed for %s: %v", booking.ConfirmationNumber, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	fields := map[string]any{"payment_proof_url": url}
	if booking.PaymentStatus == domain.PaymentStatusUnpaid {
		fields["payment_status"] = domain.PaymentStatusPending
	}
	if err := s.bookingRepo.Update(ctx, booking, fields); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	log.Printf("🧾 Payment proof uploaded for %s", booking.ConfirmationNumber)
	return updated.ToResponse(), nil
}
