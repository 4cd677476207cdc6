package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/service"
)

// Scheduler runs the nightly maturity sweep: loans past their maturity date
// are marked Matured and customers with loans nearing maturity get a reminder.
type Scheduler struct {
	svc  *service.Service
	log  *logrus.Logger
	cron *cron.Cron
}

// New creates a scheduler around the service
func New(svc *service.Service, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		svc:  svc,
		log:  log,
		cron: cron.New(),
	}
}

// Start registers the nightly job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("30 1 * * *", s.runMaturitySweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Maturity sweep scheduled")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runMaturitySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	marked, err := s.svc.MarkMaturedLoans(ctx, now)
	if err != nil {
		s.log.Errorf("Maturity sweep failed: %v", err)
	} else {
		s.log.Infof("Maturity sweep completed, %d loan(s) marked", marked)
	}

	if err := s.svc.SendMaturityReminders(ctx, now); err != nil {
		s.log.Errorf("Maturity reminders failed: %v", err)
	}
}
