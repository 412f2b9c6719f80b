package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format of booking dates
const DateLayout = "2006-01-02"

const (
	// SemesterNights approximates the nights in a semester for the booking total
	SemesterNights = 150
	// PaymentNights and PaymentMonths give the total quoted on payment confirmation
	PaymentNights = 30
	PaymentMonths = 5

	MinAcademicYear = 2000
	MaxAcademicYear = 2100
)

var confirmationPattern = regexp.MustCompile(`^BK\d{6}$`)

// CouplingPolicy governs how booking status follows payment status
type CouplingPolicy string

const (
	// PessimisticPending: bookings start pending and become active only once paid
	PessimisticPending CouplingPolicy = "pessimistic"
	// OptimisticActive: bookings start active; payment changes never demote them
	OptimisticActive CouplingPolicy = "optimistic"
)

// ParseCouplingPolicy maps a config value to a policy
func ParseCouplingPolicy(v string) (CouplingPolicy, error) {
	switch CouplingPolicy(strings.ToLower(strings.TrimSpace(v))) {
	case PessimisticPending, "pessimisticpending", "pending":
		return PessimisticPending, nil
	case OptimisticActive, "optimisticactive", "active":
		return OptimisticActive, nil
	}
	return "", fmt.Errorf("invalid coupling policy %q (must be 'pessimistic' or 'optimistic')", v)
}

// InitialStatus is the status a new booking is created with
func (p CouplingPolicy) InitialStatus() BookingStatus {
	if p == OptimisticActive {
		return BookingStatusActive
	}
	return BookingStatusPending
}

// InitialPaymentStatus is the payment status a new booking is created with
func (p CouplingPolicy) InitialPaymentStatus() PaymentStatus {
	return PaymentStatusUnpaid
}

// StatusAfterPayment returns the booking status implied by a payment change.
// Cancelled bookings keep their status.
func (p CouplingPolicy) StatusAfterPayment(current BookingStatus, payment PaymentStatus) BookingStatus {
	if current == BookingStatusCancelled {
		return current
	}
	if payment == PaymentStatusPaid {
		return BookingStatusActive
	}
	if p == OptimisticActive {
		return current
	}
	return BookingStatusPending
}

// Semester identifies an academic semester: "1" or "2"
type Semester string

const (
	SemesterFirst  Semester = "1"
	SemesterSecond Semester = "2"
)

// Valid reports whether s is "1" or "2"
func (s Semester) Valid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

// Label is the human name used in emails
func (s Semester) Label() string {
	switch s {
	case SemesterFirst:
		return "First"
	case SemesterSecond:
		return "Second"
	}
	return string(s)
}

// AcademicYearLabel renders a year as "2024 - 2025"
func AcademicYearLabel(year int) string {
	return fmt.Sprintf("%d - %d", year, year+1)
}

// ValidateAcademicYear checks the year range
func ValidateAcademicYear(year int) error {
	if year < MinAcademicYear || year > MaxAcademicYear {
		return ErrInvalidAcademicYear
	}
	return nil
}

// SemesterWindow returns the inclusive calendar interval for a semester:
// "1" is Aug 1 to Dec 31, "2" is Jan 1 to May 31 of the given year.
func SemesterWindow(semester Semester, year int) (time.Time, time.Time, error) {
	if err := ValidateAcademicYear(year); err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch semester {
	case SemesterFirst:
		return date(year, time.August, 1), date(year, time.December, 31), nil
	case SemesterSecond:
		return date(year, time.January, 1), date(year, time.May, 31), nil
	}
	return time.Time{}, time.Time{}, ErrInvalidSemester
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (expected YYYY-MM-DD)", ErrValidation, s)
	}
	return t, nil
}

// FormatDate renders a date in the wire format
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Overlaps reports whether the inclusive ranges [aStart,aEnd] and [bStart,bEnd] share a day
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// NewConfirmationNumber returns "BK" followed by a random 6-digit suffix
func NewConfirmationNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BK%06d", n.Int64()), nil
}

// IsConfirmationNumber reports whether s has the BK###### format
func IsConfirmationNumber(s string) bool {
	return confirmationPattern.MatchString(s)
}

// PaymentDeadline is the creation instant plus the payment window
func PaymentDeadline(createdAt time.Time, window time.Duration) time.Time {
	return createdAt.Add(window)
}

// BookingTotal is the semester price quoted at creation
func BookingTotal(pricePerNight float64) float64 {
	return pricePerNight * SemesterNights
}

// PaymentTotal is the amount quoted on payment confirmation
func PaymentTotal(pricePerNight float64) float64 {
	return pricePerNight * PaymentNights * PaymentMonths
}

// DeadlineLayout is how payment deadlines appear in emails
const DeadlineLayout = "January 2, 2006 at 3:04 PM"

var manila = loadManila()

func loadManila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// FormatDeadline renders t in Asia/Manila for notification emails
func FormatDeadline(t time.Time) string {
	return t.In(manila).Format(DeadlineLayout)
}
