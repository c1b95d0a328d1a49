package lifecycle

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/google/uuid"
)

// epitaphs are stamped on expired promotions, one picked at random.
var epitaphs = []string{
	"Game Over: Unclaimed!",
	"Pixel Dust in the Wind...",
	"Lost in the Digital Abyss.",
	"No Respawn for This One!",
}

type gamesRepository interface {
	ListActiveWithEndDate(ctx context.Context) ([]models.Game, error)
	MarkExpired(ctx context.Context, id uuid.UUID, epitaph string) (bool, error)
}

// Sweeper retires active promotions whose end date has passed.
type Sweeper struct {
	log     *logger.Logger
	repo    gamesRepository
	pickIdx func(n int) int
}

// SweepResult summarizes one expiration pass.
type SweepResult struct {
	Scanned    int
	Expired    int
	Unparsable int
}

// NewSweeper constructs the expiration sweeper.
func NewSweeper(log *logger.Logger, repo gamesRepository) (*Sweeper, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &Sweeper{log: log, repo: repo, pickIdx: rand.Intn}, nil
}

// Sweep expires every active game whose end date is strictly before now.
// Rows whose end date cannot be parsed are left active and logged, so a
// later scrape can repair the value.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	rows, err := s.repo.ListActiveWithEndDate(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list active games: %w", err)
	}

	result := SweepResult{Scanned: len(rows)}
	cutoff := now.UTC()
	for _, row := range rows {
		endsAt, err := ParseEndDate(*row.EndDate)
		if err != nil {
			result.Unparsable++
			warnCtx := s.log.WithFields(ctx, map[string]any{
				"game_id":  row.ID.String(),
				"title":    row.Title,
				"end_date": *row.EndDate,
			})
			s.log.Warn(warnCtx, "skipping game with unparsable end date")
			continue
		}
		if !endsAt.Before(cutoff) {
			continue
		}
		if !CanTransition(row.Status, enums.GameStatusExpired) {
			continue
		}

		epitaph := epitaphs[s.pickIdx(len(epitaphs))]
		updated, err := s.repo.MarkExpired(ctx, row.ID, epitaph)
		if err != nil {
			return result, fmt.Errorf("expire game %s: %w", row.ID, err)
		}
		if updated {
			result.Expired++
		}
	}
	return result, nil
}
