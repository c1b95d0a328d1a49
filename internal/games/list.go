package games

import (
	"time"

	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FilterParams narrows a status listing by optional predicates.
type FilterParams struct {
	Status   enums.GameStatus
	Platform string
	Genre    string
	Search   string
}

// GameView is the listing projection for a game. Detail carries the
// status-specific column: end date for active games, claim date for
// claimed, epitaph for expired, acquisition date for owned.
type GameView struct {
	ID       uuid.UUID        `json:"id"`
	Title    string           `json:"title"`
	Platform string           `json:"platform"`
	Status   enums.GameStatus `json:"status"`
	URL      string           `json:"url"`
	Detail   string           `json:"detail"`
	Genre    *string          `json:"genre,omitempty"`
	Language *string          `json:"language,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// ToView projects a game row into its listing form.
func ToView(row models.Game) GameView {
	view := GameView{
		ID:       row.ID,
		Title:    row.Title,
		Platform: row.Platform.String(),
		Status:   row.Status,
		URL:      row.URL,
		Detail:   Detail(row),
		Genre:    row.Genre,
		Language: row.Language,
		Price:    row.Price,
	}
	return view
}

// Detail returns the status-specific display column for a game row.
func Detail(row models.Game) string {
	switch row.Status {
	case enums.GameStatusClaimed:
		return formatDate(row.ClaimDate)
	case enums.GameStatusExpired:
		if row.Epitaph != nil {
			return *row.Epitaph
		}
		return ""
	case enums.GameStatusOwned:
		return formatDate(row.AcquisitionDate)
	default:
		if row.EndDate != nil {
			return *row.EndDate
		}
		return ""
	}
}

func formatDate(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

func toViews(rows []models.Game) []GameView {
	views := make([]GameView, len(rows))
	for i, row := range rows {
		views[i] = ToView(row)
	}
	return views
}
