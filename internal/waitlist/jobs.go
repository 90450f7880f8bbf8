package waitlist

import (
	"context"
	"log/slog"
	"time"

	"slotline/pkg/logger"
)

// JobProcessor runs the background sweeps for the waitlist engine
type JobProcessor struct {
	service *Service
	config  *JobConfig
	log     *logger.Logger
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: SweepInterval,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service *Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		log:     logger.GetDefault(),
		done:    make(chan struct{}),
	}
}

// Start starts the background sweep loop
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.log.Info("Starting waitlist background jobs", slog.Duration("sweep_interval", jp.config.SweepInterval))
	go jp.runSweepLoop(ctx)
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	close(jp.done)
	jp.log.Info("Waitlist background jobs stopped")
}

func (jp *JobProcessor) runSweepLoop(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.sweepOnce(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweepOnce expires overdue offers first so freed slots can be re-offered,
// then evicts waiting entries past their queue lifetime.
func (jp *JobProcessor) sweepOnce(ctx context.Context) {
	offers, err := jp.service.SweepExpiredOffers(ctx)
	if err != nil {
		jp.log.Error("offer sweep failed", slog.Any("error", err))
	}

	stale, err := jp.service.SweepStaleWaiting(ctx)
	if err != nil {
		jp.log.Error("stale waiting sweep failed", slog.Any("error", err))
	}

	if offers > 0 || stale > 0 {
		jp.log.Info("waitlist sweep complete",
			slog.Int("expired_offers", offers),
			slog.Int("expired_waiting", stale),
		)
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"sweep_interval": jp.config.SweepInterval.String(),
		"status":         "running",
	}
}
