package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var badRequestErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidCode,
	domain.ErrCodeExpired,
	domain.ErrInvalidRole,
	domain.ErrWrongPassword,
	domain.ErrImageNotFound,
	domain.ErrInvalidSemester,
	domain.ErrInvalidAcademicYear,
	domain.ErrInvalidDateRange,
	domain.ErrInvalidBookingStatus,
	domain.ErrInvalidPaymentStatus,
	domain.ErrRoomNumberRequired,
	domain.ErrCancelReasonRequired,
	domain.ErrInvalidRating,
}

var notFoundErrors = []error{
	domain.ErrNotFound,
	domain.ErrUserNotFound,
	domain.ErrDormNotFound,
	domain.ErrBookingNotFound,
}

var conflictErrors = []error{
	domain.ErrConflict,
	domain.ErrEmailTaken,
	domain.ErrAvailabilityConflict,
	domain.ErrDormHasBookings,
	domain.ErrBookingCancelled,
}

var forbiddenErrors = []error{
	domain.ErrForbidden,
	domain.ErrOwnRole,
	domain.ErrNotBookingOwner,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// clientMessage drops the "validation error: " prefix wrapped errors carry
func clientMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

// respondError maps a service error to a status code. Unknown errors are
// logged and answered with a generic message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isAny(err, badRequestErrors):
		return response.BadRequest(c, clientMessage(err))
	case isAny(err, notFoundErrors):
		return response.NotFound(c, clientMessage(err))
	case isAny(err, conflictErrors):
		return response.Conflict(c, clientMessage(err))
	case isAny(err, forbiddenErrors):
		return response.Forbidden(c, clientMessage(err))
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrExternalService):
		log.Printf("❌ %s: %v", fallback, err)
		return response.BadGateway(c, "Upload service is unavailable, please try again")
	case errors.Is(err, domain.ErrConfirmationExhausted):
		log.Printf("❌ %s: %v", fallback, err)
		return response.ServiceUnavailable(c, "Could not complete the booking, please try again")
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
