package whales

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Runner repeats ingestion for one user on a fixed interval.
type Runner struct {
	logger   *zap.Logger
	ingestor *Ingestor
	userID   string
	interval time.Duration
}

// NewRunner creates a Runner. A non-positive interval makes Run a single pass.
func NewRunner(logger *zap.Logger, ingestor *Ingestor, userID string, interval time.Duration) *Runner {
	return &Runner{
		logger:   logger.Named("whale-runner"),
		ingestor: ingestor,
		userID:   userID,
		interval: interval,
	}
}

// Run ingests immediately, then on every tick until ctx is cancelled.
// In single pass mode the ingestion error is returned; otherwise errors are only logged.
func (r *Runner) Run(ctx context.Context) error {
	if r.userID == "" {
		return errors.New("whale runner needs a user id")
	}

	_, err := r.ingestor.Ingest(ctx, r.userID)
	if r.interval <= 0 {
		return err
	}
	if err != nil {
		r.logger.Error("Whale ingestion failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Starting whale ingestion loop", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping whale ingestion loop...")
			return nil
		case <-ticker.C:
			if _, err := r.ingestor.Ingest(ctx, r.userID); err != nil && ctx.Err() == nil {
				r.logger.Error("Whale ingestion failed", zap.Error(err))
			}
		}
	}
}
