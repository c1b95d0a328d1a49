package controllers

import (
	"net/http"

	"github.com/arcadehq/freegames-backend/api/responses"
	"github.com/arcadehq/freegames-backend/internal/recommendations"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

// RecommendGames returns active promotions similar to the owned library.
// When no embedder is configured the endpoint reports the feature as off.
func RecommendGames(svc recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "recommendations are not configured"))
			return
		}

		views, err := svc.RecommendGames(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"recommendations": views})
	}
}
