package games

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/arcadehq/freegames-backend/internal/lifecycle"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGamesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	games := `
CREATE TABLE IF NOT EXISTS games (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  platform TEXT NOT NULL,
  url TEXT NOT NULL DEFAULT '',
  end_date TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  claim_date DATETIME,
  acquisition_date DATETIME,
  epitaph TEXT,
  genre TEXT,
  language TEXT,
  price NUMERIC,
  playtime_minutes INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniqueIdx := `
CREATE UNIQUE INDEX IF NOT EXISTS games_title_platform_status_key
  ON games (title, platform, status);`
	require.NoError(t, db.Exec(games).Error)
	require.NoError(t, db.Exec(uniqueIdx).Error)
	require.NoError(t, db.Exec("DELETE FROM games").Error)
	return db
}

func seedGame(t *testing.T, repo *Repository, title, platform string, mutate func(*models.Game)) *models.Game {
	t.Helper()

	game := &models.Game{
		Title:    title,
		Platform: enums.Platform(platform),
		Status:   enums.GameStatusActive,
		URL:      "https://store.example/" + title,
	}
	if mutate != nil {
		mutate(game)
	}
	inserted, err := repo.Insert(context.Background(), game)
	require.NoError(t, err)
	require.True(t, inserted)
	return game
}

func TestInsertSuppressesDuplicateTuples(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	seedGame(t, repo, "Celeste", "Epic", nil)

	dup := &models.Game{
		Title:    "Celeste",
		Platform: "Epic",
		Status:   enums.GameStatusActive,
		URL:      "https://store.example/celeste-again",
	}
	inserted, err := repo.Insert(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[enums.GameStatusActive])
}

func TestInsertAllowsSameTitleAcrossPlatformsAndStatuses(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	seedGame(t, repo, "Celeste", "Epic", nil)
	seedGame(t, repo, "Celeste", "GOG", nil)
	seedGame(t, repo, "Celeste", "Epic", func(g *models.Game) {
		g.Status = enums.GameStatusOwned
	})

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[enums.GameStatusActive])
	assert.Equal(t, int64(1), counts[enums.GameStatusOwned])
}

func TestClaimActiveByURLOnlyTouchesActiveRows(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	url := "https://store.example/shared"
	active := seedGame(t, repo, "Hades", "Epic", func(g *models.Game) { g.URL = url })
	expired := seedGame(t, repo, "Bastion", "Epic", func(g *models.Game) {
		g.URL = url
		g.Status = enums.GameStatusExpired
	})

	claimedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	updated, err := repo.ClaimActiveByURL(ctx, url, claimedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	row, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.GameStatusClaimed, row.Status)
	require.NotNil(t, row.ClaimDate)
	assert.True(t, row.ClaimDate.Equal(claimedAt))

	row, err = repo.FindByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.GameStatusExpired, row.Status)
}

func TestClaimActiveByURLNoMatches(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))

	updated, err := repo.ClaimActiveByURL(context.Background(), "https://store.example/nope", time.Now())
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestMarkExpiredRequiresActiveStatus(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	active := seedGame(t, repo, "Hades", "Epic", nil)
	claimed := seedGame(t, repo, "Bastion", "Epic", func(g *models.Game) {
		g.Status = enums.GameStatusClaimed
	})

	updated, err := repo.MarkExpired(ctx, active.ID, "Game Over: Unclaimed!")
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.MarkExpired(ctx, claimed.ID, "Game Over: Unclaimed!")
	require.NoError(t, err)
	assert.False(t, updated)

	row, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.GameStatusExpired, row.Status)
	require.NotNil(t, row.Epitaph)
	assert.Equal(t, "Game Over: Unclaimed!", *row.Epitaph)
}

func TestListActiveWithEndDateSkipsBlankDeadlines(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))

	deadline := "2026-03-05"
	seedGame(t, repo, "Hades", "Epic", func(g *models.Game) { g.EndDate = &deadline })
	seedGame(t, repo, "Bastion", "Epic", nil)

	rows, err := repo.ListActiveWithEndDate(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hades", rows[0].Title)
}

func TestFilterActiveExcludesOwnedTitles(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	seedGame(t, repo, "Hades", "Epic", nil)
	seedGame(t, repo, "Hades", "Epic", func(g *models.Game) {
		g.Status = enums.GameStatusOwned
	})
	seedGame(t, repo, "Hades", "GOG", nil)
	seedGame(t, repo, "Bastion", "Epic", nil)

	rows, err := repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.Title == "Hades" && row.Platform == "Epic")
	}
}

func TestFilterByPlatformGenreAndSearch(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	action := "Action"
	puzzle := "Puzzle"
	seedGame(t, repo, "Hades", "Epic", func(g *models.Game) { g.Genre = &action })
	seedGame(t, repo, "Baba Is You", "Epic", func(g *models.Game) { g.Genre = &puzzle })
	seedGame(t, repo, "Hades II", "Steam", func(g *models.Game) { g.Genre = &action })

	rows, err := repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Platform: "Epic"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Genre: "Action"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Search: "Hades"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Platform: "Steam", Search: "Hades"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hades II", rows[0].Title)
}

func TestFilterMatchesGenreTagsAndSearchCaseInsensitively(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	tags := "Action,Adventure"
	puzzle := "Puzzle"
	seedGame(t, repo, "Hades", "Epic", func(g *models.Game) { g.Genre = &tags })
	seedGame(t, repo, "Baba Is You", "Epic", func(g *models.Game) { g.Genre = &puzzle })

	rows, err := repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Genre: "action"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hades", rows[0].Title)

	rows, err = repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Genre: "ADVENTURE"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive, Search: "bAbA"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Baba Is You", rows[0].Title)
}

func TestSetGenreTagsEveryStatusRow(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()

	seedGame(t, repo, "Hades", "Epic", nil)
	owned := seedGame(t, repo, "Hades", "Epic", func(g *models.Game) {
		g.Status = enums.GameStatusOwned
	})
	seedGame(t, repo, "Bastion", "Epic", nil)

	updated, err := repo.SetGenre(ctx, "Hades", "Epic", "Roguelike")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	row, err := repo.FindByID(ctx, owned.ID)
	require.NoError(t, err)
	require.NotNil(t, row.Genre)
	assert.Equal(t, "Roguelike", *row.Genre)

	updated, err = repo.SetGenre(ctx, "Transistor", "Epic", "Action")
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestPromotionLifecycleEndToEnd(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	sweeper, err := lifecycle.NewSweeper(logg, repo)
	require.NoError(t, err)

	deadline := "2026-03-05T00:00:00Z"
	seedGame(t, repo, "Hades", "Epic", func(g *models.Game) { g.EndDate = &deadline })

	result, err := sweeper.Sweep(ctx, time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, result.Expired)

	rows, err := repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	updated, err := repo.ClaimActiveByURL(ctx, rows[0].URL, time.Date(2026, 3, 4, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	rows, err = repo.Filter(ctx, FilterParams{Status: enums.GameStatusActive})
	require.NoError(t, err)
	assert.Empty(t, rows)

	result, err = sweeper.Sweep(ctx, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, result.Expired)

	row, err := repo.FindByTitlePlatformStatus(ctx, "Hades", "Epic", enums.GameStatusClaimed)
	require.NoError(t, err)
	require.NotNil(t, row.ClaimDate)
	assert.Nil(t, row.Epitaph)
}

func TestOwnedCountsByPlatform(t *testing.T) {
	repo := NewRepository(setupGamesTestDB(t))

	seedGame(t, repo, "Hades", "Epic", func(g *models.Game) { g.Status = enums.GameStatusOwned })
	seedGame(t, repo, "Bastion", "Epic", func(g *models.Game) { g.Status = enums.GameStatusOwned })
	seedGame(t, repo, "Celeste", "GOG", func(g *models.Game) { g.Status = enums.GameStatusOwned })
	seedGame(t, repo, "Transistor", "Epic", nil)

	counts, err := repo.OwnedCountsByPlatform(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["Epic"])
	assert.Equal(t, int64(1), counts["GOG"])
}
