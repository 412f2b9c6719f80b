package domain

// Role represents user role in the system
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusActive, BookingStatusPending, BookingStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state of a booking
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status.
// Any value of the set is accepted regardless of the prior state.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid,
		PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// MailTemplate names a notification email template
type MailTemplate string

const (
	TemplateSignupVerification  MailTemplate = "signup_verification"
	TemplatePasswordReset       MailTemplate = "password_reset"
	TemplateBookingConfirmation MailTemplate = "booking_confirmation"
	TemplatePaymentConfirmation MailTemplate = "payment_confirmation"
	TemplateBookingCancellation MailTemplate = "booking_cancellation"
	TemplateContactForm         MailTemplate = "contact_form"
)
