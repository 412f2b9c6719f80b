package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExternalService    = errors.New("external service failure")
)

// User errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already exists")
	ErrInvalidCode   = errors.New("invalid verification code")
	ErrCodeExpired   = errors.New("verification code expired")
	ErrInvalidRole   = errors.New("invalid role")
	ErrOwnRole       = errors.New("admins cannot change their own role")
	ErrWrongPassword = errors.New("current password is incorrect")
)

// Dorm errors
var (
	ErrDormNotFound    = errors.New("dorm not found")
	ErrDormHasBookings = errors.New("dorm has bookings")
	ErrImageNotFound   = errors.New("image not found on dorm")
)

// Booking errors
var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrAvailabilityConflict  = errors.New("dorm is not available for these dates")
	ErrInvalidSemester       = errors.New("semester must be \"1\" or \"2\"")
	ErrInvalidAcademicYear   = errors.New("invalid academic year")
	ErrInvalidDateRange      = errors.New("start date must not be after end date")
	ErrInvalidBookingStatus  = errors.New("invalid booking status")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrRoomNumberRequired    = errors.New("room number is required when payment is confirmed")
	ErrCancelReasonRequired  = errors.New("cancel reason is required")
	ErrBookingCancelled      = errors.New("booking is cancelled and cannot change status")
	ErrNotBookingOwner       = errors.New("booking belongs to another user")
	ErrConfirmationExhausted = errors.New("could not allocate a unique confirmation number")
)

// Review errors
var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
