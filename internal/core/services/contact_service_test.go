package services

import (
	"context"
	"strings"
	"testing"

	"bookit-api/internal/core/domain"
	"bookit-api/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	mail := &testfixtures.FakeDispatcher{}
	svc := NewContactService(mail, "inbox@bookit.test")
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, &ContactInput{Name: " Ben ", Email: "ben@example.com", Message: "Is parking available?"}))

	sent := mail.WaitFor(domain.TemplateContactForm, 1, mailWait)
	require.Len(t, sent, 1)
	assert.Equal(t, "inbox@bookit.test", sent[0].To)
	assert.Equal(t, "Ben", sent[0].Data["name"])
	assert.Equal(t, "ben@example.com", sent[0].Data["email"])
}

func TestContactService_Validation(t *testing.T) {
	svc := NewContactService(&testfixtures.FakeDispatcher{}, "inbox@bookit.test")
	ctx := context.Background()

	tests := []ContactInput{
		{Name: "", Email: "ben@example.com", Message: "hi"},
		{Name: "Ben", Email: "not-an-email", Message: "hi"},
		{Name: "Ben", Email: "ben@example.com", Message: "   "},
		{Name: "Ben", Email: "ben@example.com", Message: strings.Repeat("x", 5001)},
	}
	for _, input := range tests {
		input := input
		assert.ErrorIs(t, svc.Submit(ctx, &input), domain.ErrValidation)
	}
}

func TestContactService_NoInbox(t *testing.T) {
	mail := &testfixtures.FakeDispatcher{}
	svc := NewContactService(mail, "")

	require.NoError(t, svc.Submit(context.Background(), &ContactInput{Name: "Ben", Email: "ben@example.com", Message: "hi"}))
	assert.Empty(t, mail.Sent())
}
