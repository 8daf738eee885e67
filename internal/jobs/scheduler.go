package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/financasapp/financas-service/internal/config"
	"github.com/financasapp/financas-service/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the periodic jobs: the daily reminder sweep and the monthly
// recurring-purchase roll-forward.
type Scheduler struct {
	cron *cron.Cron
	svc  *service.Service
	log  *logrus.Logger
}

// NewScheduler wires the cron entries from config
func NewScheduler(cfg *config.Config, svc *service.Service, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  log,
	}

	if _, err := s.cron.AddFunc(cfg.ReminderCron, s.runReminders); err != nil {
		return nil, fmt.Errorf("invalid reminder cron %q: %w", cfg.ReminderCron, err)
	}
	if _, err := s.cron.AddFunc(cfg.RollCron, s.runRollForward); err != nil {
		return nil, fmt.Errorf("invalid roll-forward cron %q: %w", cfg.RollCron, err)
	}
	return s, nil
}

// Start launches the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop halts the cron loop and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.log.Info("Running reminder sweep")
	s.svc.RunReminderSweep(ctx, time.Now().UTC())
}

func (s *Scheduler) runRollForward() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.log.Info("Running recurring roll-forward")
	s.svc.RollForwardRecurring(ctx, time.Now().UTC())
}
