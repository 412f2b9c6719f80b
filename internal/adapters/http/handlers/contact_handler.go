package handlers

import (
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler forwards contact form messages
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit handles a contact form submission
// @Summary Contact us
// @Tags Contact
// @Accept json
// @Produce json
// @Param body body services.ContactInput true "Message"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req services.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.contactService.Submit(c.UserContext(), &req); err != nil {
		return respondError(c, err, "Failed to send message")
	}

	return response.Success(c, "Message sent, we will get back to you soon", nil)
}
