package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	"github.com/arcadehq/freegames-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	require.NoError(t, db.Exec("DELETE FROM notifications").Error)
	return db
}

func seedNotification(t *testing.T, repo Repository, title string, createdAt time.Time) *models.Notification {
	t.Helper()
	n := &models.Notification{
		Type:      enums.NotificationTypeNewGames,
		Title:     title,
		Message:   "m",
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestListPagesNewestFirst(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedNotification(t, repo, "n", base.Add(time.Duration(i)*time.Hour))
	}

	page, next, err := repo.List(ctx, listNotificationsParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, final, err := repo.List(ctx, listNotificationsParams{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, final)
	assert.True(t, rest[0].CreatedAt.Before(page[1].CreatedAt))
}

func TestListPagesCoverEveryRowExactlyOnce(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	titles := []string{"a", "b", "c", "d", "e"}
	for i, title := range titles {
		seedNotification(t, repo, title, base.Add(time.Duration(i)*time.Hour))
	}

	seen := map[string]int{}
	var cursor *pagination.Cursor
	for {
		page, next, err := repo.List(ctx, listNotificationsParams{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, n := range page {
			seen[n.Title]++
		}
		if next == nil {
			break
		}
		cursor = next
	}

	require.Len(t, seen, len(titles))
	for _, title := range titles {
		assert.Equal(t, 1, seen[title], "row %q", title)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()
	n := seedNotification(t, repo, "n", time.Now().UTC())

	mark, err := repo.MarkRead(ctx, n.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	mark, err = repo.MarkRead(ctx, n.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)
}

func TestMarkAllRead(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	seedNotification(t, repo, "a", time.Now().UTC())
	seedNotification(t, repo, "b", time.Now().UTC().Add(time.Minute))

	updated, err := repo.MarkAllRead(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	page, _, err := repo.List(ctx, listNotificationsParams{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, page)
}
