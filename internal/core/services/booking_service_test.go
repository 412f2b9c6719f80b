package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bookit-api/internal/core/domain"
	"bookit-api/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingService_CreatePessimistic(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)

	res, err := svc.Create(context.Background(), &CreateBookingInput{
		DormID:    dorm.ID,
		UserID:    user.ID,
		StartDate: "2024-08-01",
		EndDate:   "2024-12-31",
		Semester:  "1",
	})
	require.NoError(t, err)

	assert.True(t, domain.IsConfirmationNumber(res.ConfirmationNumber), res.ConfirmationNumber)
	assert.Equal(t, domain.BookingStatusPending, res.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, res.PaymentStatus)
	assert.Equal(t, env.clock.Now().Add(48*time.Hour), res.PaymentDeadline.UTC())
	assert.Equal(t, "2024-08-01", res.StartDate)
	assert.Equal(t, "2024-12-31", res.EndDate)

	sent := env.mail.WaitFor(domain.TemplateBookingConfirmation, 1, mailWait)
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].To)
	assert.Equal(t, res.ConfirmationNumber, sent[0].Data["confirmation_number"])
	assert.Equal(t, 15000.0, sent[0].Data["total_price"])
	assert.Equal(t, "First", sent[0].Data["semester"])
}

func TestBookingService_CreateFromSemester(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)

	res, err := svc.Create(context.Background(), &CreateBookingInput{
		DormID:       dorm.ID,
		UserID:       user.ID,
		Semester:     "2",
		AcademicYear: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", res.StartDate)
	assert.Equal(t, "2025-05-31", res.EndDate)
}

func TestBookingService_CreateValidation(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)

	tests := []struct {
		name    string
		input   CreateBookingInput
		wantErr error
	}{
		{"no dates or semester", CreateBookingInput{DormID: dorm.ID, UserID: user.ID}, domain.ErrValidation},
		{"bad date", CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "08/01/2024", EndDate: "2024-12-31"}, domain.ErrValidation},
		{"start after end", CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-12-31", EndDate: "2024-08-01"}, domain.ErrInvalidDateRange},
		{"bad semester", CreateBookingInput{DormID: dorm.ID, UserID: user.ID, Semester: "3", AcademicYear: 2024}, domain.ErrInvalidSemester},
		{"bad year", CreateBookingInput{DormID: dorm.ID, UserID: user.ID, Semester: "1", AcademicYear: 1999}, domain.ErrInvalidAcademicYear},
		{"missing dorm", CreateBookingInput{DormID: 999, UserID: user.ID, StartDate: "2024-08-01", EndDate: "2024-08-31"}, domain.ErrDormNotFound},
		{"missing user", CreateBookingInput{DormID: dorm.ID, UserID: 999, StartDate: "2024-08-01", EndDate: "2024-08-31"}, domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := svc.Create(context.Background(), &input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingService_SameDayBooking(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)

	_, err := svc.Create(context.Background(), &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-08-01", EndDate: "2024-08-01"})
	assert.NoError(t, err)
}

func TestBookingService_OptimisticConflict(t *testing.T) {
	env := newTestEnv(t, domain.OptimisticActive)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)
	ctx := context.Background()

	first, err := svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-08-01", EndDate: "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusActive, first.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, first.PaymentStatus)

	_, err = svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-12-31", EndDate: "2025-01-31"})
	assert.ErrorIs(t, err, domain.ErrAvailabilityConflict)

	avail, err := svc.CheckAvailability(ctx, dorm.ID, "2024-09-01", "2024-09-02")
	require.NoError(t, err)
	assert.False(t, avail.Available)

	avail, err = svc.CheckAvailability(ctx, dorm.ID, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.True(t, avail.Available)
}

func TestBookingService_CheckAvailabilityErrors(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)
	ctx := context.Background()

	_, err := svc.CheckAvailability(ctx, dorm.ID, "2024-09-02", "2024-09-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = svc.CheckAvailability(ctx, dorm.ID, "soon", "2024-09-01")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CheckAvailability(ctx, 999, "2024-09-01", "2024-09-02")
	assert.ErrorIs(t, err, domain.ErrDormNotFound)
}

func TestBookingService_ConfirmationRetry(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)
	ctx := context.Background()

	gen, _ := sequence("BK000001")
	svc.SetConfirmationGenerator(gen)
	_, err := svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-08-01", EndDate: "2024-08-31"})
	require.NoError(t, err)

	gen, calls := sequence("BK000001", "BK000001", "BK000002")
	svc.SetConfirmationGenerator(gen)
	res, err := svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-09-01", EndDate: "2024-09-30"})
	require.NoError(t, err)
	assert.Equal(t, "BK000002", res.ConfirmationNumber)
	assert.Equal(t, 3, *calls)
}

func TestBookingService_ConfirmationExhausted(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)
	ctx := context.Background()

	gen, calls := sequence("BK000001")
	svc.SetConfirmationGenerator(gen)
	_, err := svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-08-01", EndDate: "2024-08-31"})
	require.NoError(t, err)

	*calls = 0
	_, err = svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-09-01", EndDate: "2024-09-30"})
	assert.ErrorIs(t, err, domain.ErrConfirmationExhausted)
	assert.Equal(t, env.cfg.Booking.ConfirmationMaxAttempt, *calls)

	total, err := env.bookings.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestBookingService_GeneratorError(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	user := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)

	boom := errors.New("entropy")
	svc.SetConfirmationGenerator(func() (string, error) { return "", boom })
	_, err := svc.Create(context.Background(), &CreateBookingInput{DormID: dorm.ID, UserID: user.ID, StartDate: "2024-08-01", EndDate: "2024-08-31"})
	assert.ErrorIs(t, err, boom)
}

func TestBookingService_ListForUser(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	ana := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	ben := testfixtures.CreateUser(t, env.db, "ben@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: ana.ID, StartDate: "2024-08-01", EndDate: "2024-08-31"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: ben.ID, StartDate: "2024-09-01", EndDate: "2024-09-30"})
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Acacia Hall", mine[0].DormName)
	assert.Equal(t, 15000.0, mine[0].TotalAmount)
}

func TestBookingService_UploadPaymentProof(t *testing.T) {
	env := newTestEnv(t, domain.PessimisticPending)
	svc := env.bookingService()
	ana := testfixtures.CreateUser(t, env.db, "ana@example.com", domain.RoleStudent)
	ben := testfixtures.CreateUser(t, env.db, "ben@example.com", domain.RoleStudent)
	dorm := testfixtures.CreateDorm(t, env.db, "Acacia Hall", 4, 100)
	ctx := context.Background()

	res, err := svc.Create(ctx, &CreateBookingInput{DormID: dorm.ID, UserID: ana.ID, StartDate: "2024-08-01", EndDate: "2024-08-31"})
	require.NoError(t, err)

	proof := func(name string) ImageFile {
		return ImageFile{Name: name, Size: 10, Reader: strings.NewReader("receipt")}
	}

	_, err = svc.UploadPaymentProof(ctx, res.BookingID, ben.ID, proof("receipt.png"))
	assert.ErrorIs(t, err, domain.ErrNotBookingOwner)

	_, err = svc.UploadPaymentProof(ctx, res.BookingID, ana.ID, proof("receipt.pdf"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UploadPaymentProof(ctx, 999, ana.ID, proof("receipt.png"))
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	got, err := svc.UploadPaymentProof(ctx, res.BookingID, ana.ID, proof("receipt.png"))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, domain.BookingStatusPending, got.Status)
	require.NotNil(t, got.PaymentProofURL)
	assert.Contains(t, *got.PaymentProofURL, "bookit/payments/"+res.ConfirmationNumber)

	env.media.UploadErr = errors.New("cdn down")
	_, err = svc.UploadPaymentProof(ctx, res.BookingID, ana.ID, proof("receipt.png"))
	assert.ErrorIs(t, err, domain.ErrExternalService)
}
