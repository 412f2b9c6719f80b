package handlers

import (
	"mime/multipart"

	"bookit-api/internal/adapters/http/middleware"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// proofFields are the accepted multipart names for a payment receipt
var proofFields = []string{"payment_proof", "file"}

// BookingHandler handles student booking endpoints and admin status changes
type BookingHandler struct {
	bookingService *services.BookingService
	statusService  *services.BookingStatusService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService, statusService *services.BookingStatusService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		statusService:  statusService,
	}
}

// PaymentStatusRequest represents the payment update body
type PaymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	RoomNumber    string               `json:"room_number"`
}

// BookingStatusRequest represents the status update body. The extra
// fields older clients send alongside are accepted and ignored.
type BookingStatusRequest struct {
	Status       domain.BookingStatus `json:"status"`
	CancelReason string               `json:"cancelReason"`
	UserEmail    string               `json:"userEmail,omitempty"`
	UserName     string               `json:"userName,omitempty"`
	BookingID    uint                 `json:"bookingId,omitempty"`
}

// CreateForDorm books the dorm named in the path
// @Summary Book a dorm
// @Description Books the dorm for the sent dates, or for the semester window when dates are omitted
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dorm ID"
// @Param body body services.CreateBookingInput true "Booking request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/dorms/{id}/bookings [post]
func (h *BookingHandler) CreateForDorm(c *fiber.Ctx) error {
	dormID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	var req services.CreateBookingInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.DormID = dormID

	return h.create(c, &req)
}

// Create books the dorm named in the body
// @Summary Book a dorm (flat)
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookingInput true "Booking request with dorm_id"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req services.CreateBookingInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.DormID == 0 {
		return response.BadRequest(c, "dorm_id is required")
	}

	return h.create(c, &req)
}

func (h *BookingHandler) create(c *fiber.Ctx, req *services.CreateBookingInput) error {
	req.UserID = middleware.UserID(c)

	result, err := h.bookingService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "Failed to create booking")
	}

	return response.Created(c, "Booking created successfully", result)
}

// Availability answers whether a dorm is free for an interval
// @Summary Check availability
// @Tags Bookings
// @Produce json
// @Param id path int true "Dorm ID"
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/dorms/{id}/availability [get]
func (h *BookingHandler) Availability(c *fiber.Ctx) error {
	dormID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	result, err := h.bookingService.CheckAvailability(c.UserContext(), dormID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err, "Failed to check availability")
	}

	return response.Success(c, "", result)
}

// ListMine returns the caller's bookings
// @Summary My bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/bookings/user [get]
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	bookings, err := h.bookingService.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch bookings")
	}

	return response.Success(c, "", bookings)
}

// UploadPaymentProof attaches a receipt image to the caller's booking
// @Summary Upload payment proof
// @Tags Bookings
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param payment_proof formData file true "Receipt image"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/bookings/{id}/payment-proof [post]
func (h *BookingHandler) UploadPaymentProof(c *fiber.Ctx) error {
	bookingID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid booking ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "payment_proof file is required")
	}

	var header *multipart.FileHeader
	for _, field := range proofFields {
		if files := form.File[field]; len(files) > 0 {
			header = files[0]
			break
		}
	}
	if header == nil {
		return response.BadRequest(c, "payment_proof file is required")
	}

	f, err := header.Open()
	if err != nil {
		return response.BadRequest(c, "Invalid file upload")
	}
	defer f.Close()

	file := services.ImageFile{Name: header.Filename, Size: header.Size, Reader: f}
	booking, err := h.bookingService.UploadPaymentProof(c.UserContext(), bookingID, middleware.UserID(c), file)
	if err != nil {
		return respondError(c, err, "Failed to upload payment proof")
	}

	return response.Success(c, "Payment proof uploaded", booking)
}

// SetPaymentStatus records a payment decision
// @Summary Update payment status
// @Description Paid requires room_number and sends a payment confirmation email
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param body body PaymentStatusRequest true "Payment status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/admin/bookings/{id}/payment [patch]
func (h *BookingHandler) SetPaymentStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid booking ID")
	}

	var req PaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	booking, err := h.statusService.SetPaymentStatus(c.UserContext(), id, req.PaymentStatus, req.RoomNumber)
	if err != nil {
		return respondError(c, err, "Failed to update payment status")
	}

	return response.Success(c, "Payment status updated successfully", booking)
}

// SetStatus writes a booking status
// @Summary Update booking status
// @Description Cancelling requires cancelReason and sends a cancellation email
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param body body BookingStatusRequest true "Booking status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/admin/bookings/{id} [patch]
func (h *BookingHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid booking ID")
	}

	var req BookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	booking, err := h.statusService.SetStatus(c.UserContext(), id, req.Status, req.CancelReason)
	if err != nil {
		return respondError(c, err, "Failed to update booking status")
	}

	return response.Success(c, "Booking status updated successfully", booking)
}
