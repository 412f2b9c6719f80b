package services

import (
	"testing"
	"time"

	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/testfixtures"

	"gorm.io/gorm"
)

const mailWait = 2 * time.Second

type testEnv struct {
	db    *gorm.DB
	cfg   *config.Config
	clock *testfixtures.Clock
	mail  *testfixtures.FakeDispatcher
	media *testfixtures.FakeMediaStore

	users    repositories.UserRepository
	codes    repositories.CodeRepository
	dorms    repositories.DormRepository
	bookings repositories.BookingRepository
	reviews  repositories.ReviewRepository
}

func newTestEnv(t *testing.T, policy domain.CouplingPolicy) *testEnv {
	t.Helper()

	db := testfixtures.NewDB(t)
	return &testEnv{
		db: db,
		cfg: &config.Config{
			AppMode: "dev",
			JWT:     config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
			Booking: config.BookingConfig{
				CouplingPolicy:         policy,
				PaymentDeadline:        48 * time.Hour,
				ConfirmationMaxAttempt: 5,
			},
			Cron: config.CronConfig{
				ExpirySweepSpec: "@every 15m",
				CodeCleanupSpec: "@every 10m",
			},
			Notify: config.NotifyConfig{Driver: "log", ContactInbox: "inbox@bookit.test"},
			Media:  config.MediaConfig{Folder: "bookit/dorms"},
		},
		clock:    testfixtures.NewClock(time.Time{}),
		mail:     &testfixtures.FakeDispatcher{},
		media:    &testfixtures.FakeMediaStore{},
		users:    repositories.NewUserRepository(db),
		codes:    repositories.NewCodeRepository(db),
		dorms:    repositories.NewDormRepository(db),
		bookings: repositories.NewBookingRepository(db),
		reviews:  repositories.NewReviewRepository(db),
	}
}

func (e *testEnv) bookingService() *BookingService {
	s := NewBookingService(e.bookings, e.dorms, e.users, e.media, e.mail, e.cfg)
	s.SetClock(e.clock.Now)
	return s
}

func (e *testEnv) statusService() *BookingStatusService {
	return NewBookingStatusService(e.bookings, e.mail, e.cfg)
}

func (e *testEnv) authService() *AuthService {
	s := NewAuthService(e.users, e.codes, e.mail, e.cfg)
	s.SetClock(e.clock.Now)
	return s
}

func (e *testEnv) expiryService() *ExpiryService {
	s := NewExpiryService(e.bookings, e.codes, e.statusService())
	s.SetClock(e.clock.Now)
	return s
}

func (e *testEnv) dormService() *DormService {
	return NewDormService(e.dorms, e.bookings, e.reviews, e.media, e.cfg)
}

// sequence returns a generator yielding numbers in order, repeating the last
func sequence(numbers ...string) (func() (string, error), *int) {
	calls := 0
	return func() (string, error) {
		i := calls
		if i >= len(numbers) {
			i = len(numbers) - 1
		}
		calls++
		return numbers[i], nil
	}, &calls
}
