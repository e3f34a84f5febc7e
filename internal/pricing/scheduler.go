package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/token-portfolio/internal/logging"
)

// Scheduler triggers the daily ingestion sweep at midnight UTC.
type Scheduler struct {
	ingestion *IngestionService
	logger    *logging.Logger
	ticker    *time.Ticker
	stopChan  chan struct{}
	running   bool
}

// NewScheduler creates a scheduler for the given ingestion service
func NewScheduler(ingestion *IngestionService, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		ingestion: ingestion,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the ingestion scheduler. The first run fires at the next
// midnight UTC, then every 24 hours.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("ingestion scheduler is already running")
	}
	s.running = true

	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	untilMidnight := nextMidnight.Sub(now)

	s.logger.WithFields(map[string]interface{}{
		"nextRun": nextMidnight.Format(time.RFC3339),
		"in":      untilMidnight.String(),
	}).Info("Ingestion scheduler started")

	go func() {
		select {
		case <-time.After(untilMidnight):
			s.runOnce(ctx)
		case <-s.stopChan:
			return
		}

		s.ticker = time.NewTicker(24 * time.Hour)
		defer s.ticker.Stop()

		for {
			select {
			case <-s.ticker.C:
				s.runOnce(ctx)
			case <-s.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	if !s.running {
		return fmt.Errorf("ingestion scheduler is not running")
	}

	close(s.stopChan)
	s.running = false

	if s.ticker != nil {
		s.ticker.Stop()
	}

	s.logger.Info("Ingestion scheduler stopped")
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.ingestion.RunDailyIngestion(ctx, time.Now().UTC()); err != nil {
		s.logger.WithError(err).Error("Scheduled price ingestion failed")
	}
}
