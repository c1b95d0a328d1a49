package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/logger"
)

const notificationRetentionDays = 30

type notificationPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// notificationCleanupJob prunes old in-app notifications.
type notificationCleanupJob struct {
	logg *logger.Logger
	repo notificationPruner
	now  func() time.Time
}

// NewNotificationCleanupJob constructs the notification retention job.
func NewNotificationCleanupJob(logg *logger.Logger, repo notificationPruner) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &notificationCleanupJob{logg: logg, repo: repo, now: time.Now}, nil
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-notificationRetentionDays * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune notifications: %w", err)
	}
	if deleted > 0 {
		j.logg.Info(j.logg.WithField(ctx, "deleted", deleted), "pruned old notifications")
	}
	return nil
}
