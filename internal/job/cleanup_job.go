package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"careform-api/internal/repository"
)

// CleanupJob purges draft submissions that were abandoned by their authors
type CleanupJob struct {
	submissionRepo repository.SubmissionRepository
	retention      time.Duration
	logger         *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance.
// retentionDays is how long an untouched draft is kept before deletion.
func NewCleanupJob(
	submissionRepo repository.SubmissionRepository,
	retentionDays int,
	logger *zap.Logger,
) *CleanupJob {
	return &CleanupJob{
		submissionRepo: submissionRepo,
		retention:      time.Duration(retentionDays) * 24 * time.Hour,
		logger:         logger,
	}
}

// Run executes the cleanup job.
// It deletes draft submissions whose last update is older than the retention window.
func (j *CleanupJob) Run() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-j.retention)

	j.logger.Info("Starting cleanup job for stale draft submissions",
		zap.Time("cutoff", cutoff),
	)

	deleted, err := j.submissionRepo.DeleteStaleDrafts(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to delete stale draft submissions",
			zap.Error(err),
		)
		return
	}

	if deleted == 0 {
		j.logger.Info("No stale draft submissions found")
		return
	}

	j.logger.Info("Cleanup job completed",
		zap.Int64("deleted", deleted),
	)
}
