package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookit-api/internal/config"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// CronService runs the payment-deadline sweep and code purge on schedules
type CronService struct {
	cron   *cron.Cron
	expiry *ExpiryService
	cfg    config.CronConfig
}

// NewCronService creates a new cron service
func NewCronService(expiry *ExpiryService, cfg config.CronConfig) *CronService {
	return &CronService{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		expiry: expiry,
		cfg:    cfg,
	}
}

// Register adds the configured jobs and returns the number scheduled
func (s *CronService) Register() (int, error) {
	jobs := 0

	if _, err := s.cron.AddFunc(s.cfg.CodeCleanupSpec, s.purgeCodes); err != nil {
		return jobs, fmt.Errorf("invalid CODE_CLEANUP_CRON %q: %w", s.cfg.CodeCleanupSpec, err)
	}
	jobs++

	if s.cfg.ExpirySweepEnabled {
		if _, err := s.cron.AddFunc(s.cfg.ExpirySweepSpec, s.sweepOverdue); err != nil {
			return jobs, fmt.Errorf("invalid EXPIRY_SWEEP_CRON %q: %w", s.cfg.ExpirySweepSpec, err)
		}
		jobs++
	}

	return jobs, nil
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	jobs, err := s.Register()
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🚀 CronService started (%d job(s), expiry sweep enabled: %t)", jobs, s.cfg.ExpirySweepEnabled)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) sweepOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.expiry.SweepOverdue(ctx); err != nil {
		log.Printf("❌ Expiry sweep failed: %v", err)
	}
}

func (s *CronService) purgeCodes() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.expiry.PurgeCodes(ctx); err != nil {
		log.Printf("❌ Code purge failed: %v", err)
	}
}
