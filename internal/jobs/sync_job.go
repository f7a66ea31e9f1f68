package jobs

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/config"
	"github.com/phuclong-auto/dealer-api/internal/domain"
	syncengine "github.com/phuclong-auto/dealer-api/internal/sync"
)

// SyncRunner is the coordinator surface the periodic sync job drives
type SyncRunner interface {
	SyncNow(ctx context.Context) (domain.SyncResult, error)
}

// SyncJob periodically pushes the pending-action queue to the remote
// database and pulls the latest collections back
type SyncJob struct {
	runner SyncRunner
	cfg    *config.SyncConfig
	logger *zap.Logger
}

// NewSyncJob creates a periodic sync job
func NewSyncJob(runner SyncRunner, cfg *config.SyncConfig, logger *zap.Logger) *SyncJob {
	return &SyncJob{
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the job name used for scheduler registration
func (j *SyncJob) Name() string {
	return "remote-sync"
}

// Schedule returns the configured cron expression
func (j *SyncJob) Schedule() string {
	return j.cfg.Schedule
}

// Run executes one sync cycle with the configured deadline. An already
// running cycle is not an error; the tick is simply skipped.
func (j *SyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.TimeoutDuration())
	defer cancel()

	result, err := j.runner.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, syncengine.ErrSyncInProgress) {
			j.logger.Debug("sync tick skipped, cycle still running")
			return
		}
		j.logger.Error("scheduled sync failed", zap.Error(err))
		return
	}

	if !result.OK {
		j.logger.Warn("scheduled sync did not complete", zap.String("message", result.Message))
		return
	}
	j.logger.Info("scheduled sync completed",
		zap.Int("replayed", result.Replayed),
		zap.Int("skipped", result.Skipped),
		zap.Int("conflicts", result.Conflicts))
}

// Register wires the job into the scheduler when enabled
func (j *SyncJob) Register(scheduler *Scheduler) error {
	if !j.cfg.Enabled {
		j.logger.Info("periodic sync disabled")
		return nil
	}
	return scheduler.AddJob(j.Name(), j.Schedule(), j.Run)
}
