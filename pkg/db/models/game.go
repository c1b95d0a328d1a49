package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arcadehq/freegames-backend/pkg/enums"
)

// Game tracks one storefront promotion through its lifecycle. The same
// title+platform pair may appear once per status, which is how a game that was
// once an active offer keeps its audit row after a separate owned row is
// created.
type Game struct {
	ID       uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Title    string         `gorm:"column:title;not null;uniqueIndex:games_title_platform_status_key"`
	Platform enums.Platform `gorm:"column:platform;not null;uniqueIndex:games_title_platform_status_key"`
	URL      string         `gorm:"column:url"`
	// EndDate keeps the scraper's raw ISO-8601 text so unparsable values
	// survive storage and are re-warned on every sweep instead of crashing
	// ingestion.
	EndDate         *string          `gorm:"column:end_date"`
	Status          enums.GameStatus `gorm:"column:status;not null;default:'active';uniqueIndex:games_title_platform_status_key"`
	ClaimDate       *time.Time       `gorm:"column:claim_date"`
	Epitaph         *string          `gorm:"column:epitaph"`
	AcquisitionDate *time.Time       `gorm:"column:acquisition_date"`
	Price           *decimal.Decimal `gorm:"column:price;type:numeric"`
	Genre           *string          `gorm:"column:genre"`
	Language        *string          `gorm:"column:language"`
	PlaytimeMinutes *int             `gorm:"column:playtime_minutes"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns a surrogate key; sqlite has no server-side uuid default.
func (g *Game) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
