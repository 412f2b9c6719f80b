package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/validate"
)

// ContactService forwards contact form messages to the staff inbox
type ContactService struct {
	dispatcher Dispatcher
	inbox      string
}

// NewContactService creates a new contact service
func NewContactService(dispatcher Dispatcher, inbox string) *ContactService {
	return &ContactService{dispatcher: dispatcher, inbox: inbox}
}

// ContactInput represents a contact form submission
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit validates and forwards the message
func (s *ContactService) Submit(ctx context.Context, input *ContactInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	if s.inbox == "" {
		log.Printf("⚠️ Contact message from %s dropped: CONTACT_INBOX not set", input.Email)
		return nil
	}

	dispatchAsync(ctx, s.dispatcher, domain.TemplateContactForm, s.inbox, map[string]any{
		"name":    input.Name,
		"email":   input.Email,
		"message": input.Message,
	})
	return nil
}
