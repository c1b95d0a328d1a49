package controllers

import (
	"net/http"

	"github.com/arcadehq/freegames-backend/api/responses"
	"github.com/arcadehq/freegames-backend/api/validators"
	"github.com/arcadehq/freegames-backend/internal/library"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

type steamImportRequest struct {
	SteamID string `json:"steam_id" validate:"required"`
}

// ImportSteamLibrary imports a Steam library into the owned games table.
// Requires a Steam API key in configuration.
func ImportSteamLibrary(svc library.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "steam import is not configured"))
			return
		}

		var req steamImportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imported, err := svc.ImportSteamLibrary(r.Context(), req.SteamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"imported": imported})
	}
}

// SyncSteamPlaytime refreshes playtime for recently played Steam games.
func SyncSteamPlaytime(svc library.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "steam import is not configured"))
			return
		}

		var req steamImportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.SyncSteamPlaytime(r.Context(), req.SteamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": updated})
	}
}
