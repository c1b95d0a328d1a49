package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
)

// exportOrder fixes the status grouping of export files.
var exportOrder = []enums.GameStatus{
	enums.GameStatusActive,
	enums.GameStatusClaimed,
	enums.GameStatusOwned,
	enums.GameStatusExpired,
}

var csvHeader = []string{"Status", "Platform", "Title", "Detail", "Price", "Genre"}

type gamesLister interface {
	ListByStatus(ctx context.Context, status enums.GameStatus) ([]models.Game, error)
}

// Exporter renders the full collection as CSV or JSON.
type Exporter struct {
	repo gamesLister
}

// NewExporter builds an exporter over the games repository.
func NewExporter(repo gamesLister) (*Exporter, error) {
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &Exporter{repo: repo}, nil
}

// Row is one exported game.
type Row struct {
	Status   string `json:"status"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Price    string `json:"price,omitempty"`
	Genre    string `json:"genre,omitempty"`
}

func (e *Exporter) collect(ctx context.Context) ([]Row, error) {
	var rows []Row
	for _, status := range exportOrder {
		batch, err := e.repo.ListByStatus(ctx, status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games for export")
		}
		for _, game := range batch {
			row := Row{
				Status:   game.Status.String(),
				Platform: game.Platform.String(),
				Title:    game.Title,
				Detail:   games.Detail(game),
			}
			if game.Price != nil {
				row.Price = game.Price.String()
			}
			if game.Genre != nil {
				row.Genre = *game.Genre
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// WriteCSV streams the collection as CSV.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer) error {
	rows, err := e.collect(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Status, row.Platform, row.Title, row.Detail, row.Price, row.Genre}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON streams the collection as an indented JSON array.
func (e *Exporter) WriteJSON(ctx context.Context, w io.Writer) error {
	rows, err := e.collect(ctx)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []Row{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}
