package services

import (
	"context"
	"log"
	"time"

	"peo-doctrack/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs. Currently only the
// session expiry sweep.
type CronService struct {
	sessionRepo repositories.SessionRepository
	schedule    string
	cron        *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(sessionRepo repositories.SessionRepository, schedule string) *CronService {
	return &CronService{
		sessionRepo: sessionRepo,
		schedule:    schedule,
		cron:        cron.New(),
	}
}

// Start registers jobs and launches the scheduler
func (s *CronService) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.sweepSessions); err != nil {
		log.Printf("❌ Failed to schedule session sweep: %v", err)
		return
	}

	s.cron.Start()
	log.Printf("🚀 CronService started [session sweep: %s]", s.schedule)
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// sweepSessions deletes expired session rows
func (s *CronService) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Session sweep error: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("🧹 Session sweep removed %d expired sessions", removed)
	}
}
