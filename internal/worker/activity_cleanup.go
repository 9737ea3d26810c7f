package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
)

// ActivityCleanupWorker is a safety net behind the per-insert retention
// pruning. It periodically sweeps users whose activity count drifted past
// the cap, which can happen when an insert-time prune fails.
type ActivityCleanupWorker struct {
	repo            repository.ActivityRepository
	log             *logger.Logger
	metrics         *metrics.Metrics
	retentionLimit  int
	cleanupInterval time.Duration
}

func NewActivityCleanupWorker(repo repository.ActivityRepository, log *logger.Logger, m *metrics.Metrics, cleanupInterval time.Duration) *ActivityCleanupWorker {
	return &ActivityCleanupWorker{
		repo:            repo,
		log:             log,
		metrics:         m,
		retentionLimit:  model.ActivityRetentionLimit,
		cleanupInterval: cleanupInterval,
	}
}

func (w *ActivityCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.log.Error(err, "activity cleanup sweep failed")
			}
		}
	}
}

func (w *ActivityCleanupWorker) cleanup(ctx context.Context) error {
	userIDs, err := w.repo.UserIDsOverLimit(ctx, w.retentionLimit)
	if err != nil {
		return fmt.Errorf("failed to list users over retention limit: %w", err)
	}

	var total int64
	for _, userID := range userIDs {
		start := time.Now()
		removed, err := w.repo.Prune(ctx, userID, w.retentionLimit)
		if err != nil {
			w.log.Error(err, "failed to prune activities", "user_id", userID)
			continue
		}
		w.metrics.PruneLatency.Observe(time.Since(start).Seconds())
		w.metrics.ActivitiesPruned.Add(float64(removed))
		total += removed
	}

	if total > 0 {
		w.log.Info("activity cleanup sweep complete", "users", len(userIDs), "removed", total)
	}
	return nil
}
