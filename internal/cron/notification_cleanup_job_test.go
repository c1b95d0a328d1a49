package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/logger"
)

type fakePruner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakePruner) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

func TestNotificationCleanupUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pruner := &fakePruner{deleted: 5}
	jobIface, err := NewNotificationCleanupJob(logger.New(logger.Options{ServiceName: "test"}), pruner)
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	job := jobIface.(*notificationCleanupJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.Add(-notificationRetentionDays * 24 * time.Hour)
	if !pruner.cutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, pruner.cutoff)
	}
}

func TestNotificationCleanupPropagatesErrors(t *testing.T) {
	jobIface, err := NewNotificationCleanupJob(logger.New(logger.Options{ServiceName: "test"}), &fakePruner{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
