package cron

import (
	"context"
	"fmt"
)

type refreshRunner interface {
	Run(ctx context.Context) error
}

// refreshJob runs one full promotion refresh cycle.
type refreshJob struct {
	cycle refreshRunner
}

// NewRefreshJob wraps the ingest cycle as a scheduled job.
func NewRefreshJob(cycle refreshRunner) (Job, error) {
	if cycle == nil {
		return nil, fmt.Errorf("refresh cycle required")
	}
	return &refreshJob{cycle: cycle}, nil
}

func (j *refreshJob) Name() string { return "promotion-refresh" }

func (j *refreshJob) Run(ctx context.Context) error {
	return j.cycle.Run(ctx)
}
