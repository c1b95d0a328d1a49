package library

import (
	"context"
	"fmt"

	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

const steamPlatform = "Steam"

type steamLibrary interface {
	OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error)
	RecentlyPlayed(ctx context.Context, steamID string) ([]OwnedGame, error)
}

type gamesWriter interface {
	MarkOwned(ctx context.Context, input games.MarkOwnedInput) (*models.Game, error)
}

type playtimeWriter interface {
	SetPlaytime(ctx context.Context, title, platform string, minutes int) (int64, error)
}

// Service folds an external storefront library into the owned games table.
type Service interface {
	ImportSteamLibrary(ctx context.Context, steamID string) (int, error)
	SyncSteamPlaytime(ctx context.Context, steamID string) (int, error)
}

type service struct {
	log      *logger.Logger
	steam    steamLibrary
	games    gamesWriter
	playtime playtimeWriter
}

// NewService builds the library import service.
func NewService(log *logger.Logger, steam steamLibrary, gamesSvc gamesWriter, playtime playtimeWriter) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if steam == nil {
		return nil, fmt.Errorf("steam client required")
	}
	if gamesSvc == nil {
		return nil, fmt.Errorf("games service required")
	}
	if playtime == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{log: log, steam: steam, games: gamesSvc, playtime: playtime}, nil
}

// ImportSteamLibrary records every Steam library entry as owned. Entries
// without a name are skipped; already-imported games are refreshed.
func (s *service) ImportSteamLibrary(ctx context.Context, steamID string) (int, error) {
	entries, err := s.steam.OwnedGames(ctx, steamID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch steam library")
	}

	imported := 0
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		_, err := s.games.MarkOwned(ctx, games.MarkOwnedInput{
			Title:    entry.Name,
			Platform: steamPlatform,
			URL:      StoreURL(entry.AppID),
		})
		if err != nil {
			warnCtx := s.log.WithField(ctx, "title", entry.Name)
			s.log.Warn(warnCtx, fmt.Sprintf("skipping library entry: %v", err))
			continue
		}
		imported++
	}
	return imported, nil
}

// SyncSteamPlaytime copies lifetime playtime from recently played games
// onto the matching owned rows.
func (s *service) SyncSteamPlaytime(ctx context.Context, steamID string) (int, error) {
	entries, err := s.steam.RecentlyPlayed(ctx, steamID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch steam playtime")
	}

	updated := 0
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		rows, err := s.playtime.SetPlaytime(ctx, entry.Name, steamPlatform, entry.PlaytimeForever)
		if err != nil {
			return updated, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update playtime")
		}
		if rows > 0 {
			updated++
		}
	}
	return updated, nil
}
