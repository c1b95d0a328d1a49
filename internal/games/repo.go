package games

import (
	"context"
	"strings"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/db"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes game persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a game repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert creates a new game row. A row that collides with an existing
// (title, platform, status) tuple is silently suppressed and reported as
// not inserted, since the scrapers re-announce the same promotions on
// every cycle.
func (r *Repository) Insert(ctx context.Context, game *models.Game) (bool, error) {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindByID fetches a single game row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var row models.Game
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByTitlePlatformStatus fetches the unique row for a tuple, if present.
func (r *Repository) FindByTitlePlatformStatus(ctx context.Context, title, platform string, status enums.GameStatus) (*models.Game, error) {
	var row models.Game
	err := r.db.WithContext(ctx).
		Where("title = ? AND platform = ? AND status = ?", title, platform, status).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save persists all fields of an existing row.
func (r *Repository) Save(ctx context.Context, game *models.Game) error {
	return r.db.WithContext(ctx).Save(game).Error
}

// ClaimActiveByURL flips every active row with the given URL to claimed and
// stamps the claim date. Rows in any other status are left untouched.
func (r *Repository) ClaimActiveByURL(ctx context.Context, url string, claimDate time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("url = ? AND status = ?", url, enums.GameStatusActive).
		Updates(map[string]any{
			"status":     enums.GameStatusClaimed,
			"claim_date": claimDate,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListActiveWithEndDate returns active rows that carry an end date, for the
// expiration sweep.
func (r *Repository) ListActiveWithEndDate(ctx context.Context) ([]models.Game, error) {
	var rows []models.Game
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date <> ''", enums.GameStatusActive).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkExpired retires a row, recording its epitaph. Only active rows are
// eligible, so a row claimed between listing and update is skipped.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID, epitaph string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND status = ?", id, enums.GameStatusActive).
		Updates(map[string]any{
			"status":  enums.GameStatusExpired,
			"epitaph": epitaph,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByStatus returns every row in the given status, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.GameStatus) ([]models.Game, error) {
	var rows []models.Game
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type statusCount struct {
	Status enums.GameStatus
	Total  int64
}

// StatusCounts tallies rows per status.
func (r *Repository) StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Game{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.GameStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// OwnedCountsByPlatform tallies owned rows per platform.
func (r *Repository) OwnedCountsByPlatform(ctx context.Context) (map[string]int64, error) {
	type platformCount struct {
		Platform string
		Total    int64
	}
	var rows []platformCount
	err := r.db.WithContext(ctx).Model(&models.Game{}).
		Select("platform, COUNT(*) AS total").
		Where("status = ?", enums.GameStatusOwned).
		Group("platform").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Platform] = row.Total
	}
	return counts, nil
}

// Filter returns rows matching the given status plus optional predicates.
// Active listings exclude games the player already owns on the same
// platform, regardless of which promotion row granted ownership. Genre and
// title predicates are case-insensitive substring matches; genre stores a
// comma-joined tag list, so a single tag must match inside it.
func (r *Repository) Filter(ctx context.Context, params FilterParams) ([]models.Game, error) {
	query := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("status = ?", params.Status)

	if params.Status == enums.GameStatusActive {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM games owned WHERE owned.title = games.title AND owned.platform = games.platform AND owned.status = ?)",
			enums.GameStatusOwned,
		)
	}
	if params.Platform != "" {
		query = query.Where("platform = ?", params.Platform)
	}
	if params.Genre != "" {
		query = query.Where("LOWER(genre) LIKE ?", "%"+strings.ToLower(params.Genre)+"%")
	}
	if params.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var rows []models.Game
	err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SetPrice stamps the current price on every row of a (title, platform)
// pair, whatever its status.
func (r *Repository) SetPrice(ctx context.Context, title, platform string, price decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("title = ? AND platform = ?", title, platform).
		Update("price", price)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetGenre tags every row of a (title, platform) pair with a genre string.
func (r *Repository) SetGenre(ctx context.Context, title, platform, genre string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("title = ? AND platform = ?", title, platform).
		Update("genre", genre)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetPlaytime records accumulated playtime for a (title, platform) pair.
func (r *Repository) SetPlaytime(ctx context.Context, title, platform string, minutes int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("title = ? AND platform = ?", title, platform).
		Update("playtime_minutes", minutes)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
