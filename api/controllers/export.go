package controllers

import (
	"net/http"
	"strings"

	"github.com/arcadehq/freegames-backend/api/responses"
	"github.com/arcadehq/freegames-backend/internal/export"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

// ExportGames streams the collection as a CSV or JSON download.
func ExportGames(exporter *export.Exporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		if format == "" {
			format = "csv"
		}

		switch format {
		case "csv":
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="games_export.csv"`)
			if err := exporter.WriteCSV(r.Context(), w); err != nil {
				logg.Error(r.Context(), "csv export failed", err)
			}
		case "json":
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Disposition", `attachment; filename="games_export.json"`)
			if err := exporter.WriteJSON(r.Context(), w); err != nil {
				logg.Error(r.Context(), "json export failed", err)
			}
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "format must be csv or json"))
		}
	}
}
