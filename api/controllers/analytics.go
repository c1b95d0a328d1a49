package controllers

import (
	"net/http"

	"github.com/arcadehq/freegames-backend/api/responses"
	"github.com/arcadehq/freegames-backend/internal/analytics"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

// CollectionStats returns per-status game counts.
func CollectionStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.StatusCounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"counts": counts})
	}
}

// PlatformChart returns the owned-games-per-platform bar chart payload.
func PlatformChart(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chart, err := svc.PlatformChart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, chart)
	}
}
