package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/internal/lifecycle"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"go.uber.org/multierr"
)

type gamesRecorder interface {
	Add(ctx context.Context, input games.AddGameInput) (*models.Game, bool, error)
}

type sweeper interface {
	Sweep(ctx context.Context, now time.Time) (lifecycle.SweepResult, error)
}

type notifier interface {
	NotifyNewGames(ctx context.Context) error
	NotifyExpiringGames(ctx context.Context, now time.Time) error
}

// Cycle runs one full refresh: scrape every source, record fresh
// promotions, expire stale ones, then send notifications. A failing source
// never blocks the others; its error is folded into the aggregate result.
type Cycle struct {
	log      *logger.Logger
	sources  []Source
	recorder gamesRecorder
	sweeper  sweeper
	notifier notifier
	now      func() time.Time
}

// NewCycle constructs a refresh cycle over the given sources.
func NewCycle(log *logger.Logger, sources []Source, recorder gamesRecorder, sweep sweeper, notify notifier) (*Cycle, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("games service required")
	}
	if sweep == nil {
		return nil, fmt.Errorf("sweeper required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &Cycle{
		log:      log,
		sources:  sources,
		recorder: recorder,
		sweeper:  sweep,
		notifier: notify,
		now:      time.Now,
	}, nil
}

// Run executes one refresh cycle.
func (c *Cycle) Run(ctx context.Context) error {
	var errs error

	for _, source := range c.sources {
		srcCtx := c.log.WithPlatform(ctx, source.Name())

		candidates, err := source.Fetch(ctx)
		if err != nil {
			c.log.Warn(srcCtx, fmt.Sprintf("source fetch failed: %v", err))
			errs = multierr.Append(errs, fmt.Errorf("source %s: %w", source.Name(), err))
			continue
		}

		recorded := 0
		for _, candidate := range candidates {
			_, inserted, err := c.recorder.Add(ctx, games.AddGameInput{
				Title:    candidate.Title,
				Platform: candidate.Platform,
				URL:      candidate.URL,
				EndDate:  candidate.EndDate,
				Genre:    candidate.Genre,
				Language: candidate.Language,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("record %s from %s: %w", candidate.Title, source.Name(), err))
				continue
			}
			if inserted {
				recorded++
			}
		}
		infoCtx := c.log.WithFields(srcCtx, map[string]any{
			"fetched":  len(candidates),
			"recorded": recorded,
		})
		c.log.Info(infoCtx, "source refresh complete")
	}

	now := c.now().UTC()
	result, err := c.sweeper.Sweep(ctx, now)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("sweep: %w", err))
	} else if result.Expired > 0 {
		sweepCtx := c.log.WithFields(ctx, map[string]any{
			"scanned": result.Scanned,
			"expired": result.Expired,
		})
		c.log.Info(sweepCtx, "expired stale promotions")
	}

	if err := c.notifier.NotifyNewGames(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("notify new games: %w", err))
	}
	if err := c.notifier.NotifyExpiringGames(ctx, now); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("notify expiring games: %w", err))
	}
	return errs
}
