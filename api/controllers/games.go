package controllers

import (
	"net/http"
	"strings"

	"github.com/arcadehq/freegames-backend/api/responses"
	"github.com/arcadehq/freegames-backend/api/validators"
	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

type addGameRequest struct {
	Title    string  `json:"title" validate:"required"`
	Platform string  `json:"platform" validate:"required"`
	URL      string  `json:"url" validate:"required,url"`
	EndDate  *string `json:"end_date,omitempty"`
	Genre    *string `json:"genre,omitempty"`
	Language *string `json:"language,omitempty"`
}

type claimGameRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ownGameRequest struct {
	Title    string `json:"title" validate:"required"`
	Platform string `json:"platform" validate:"required"`
	URL      string `json:"url,omitempty" validate:"omitempty,url"`
}

type setGenreRequest struct {
	Title    string `json:"title" validate:"required"`
	Platform string `json:"platform" validate:"required"`
	Genre    string `json:"genre" validate:"required"`
}

// ListGames returns games in one status, with optional platform, genre,
// and title-search filters.
func ListGames(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		if status == "" {
			status = enums.GameStatusActive.String()
		}

		params := games.FilterParams{
			Status:   enums.GameStatus(status),
			Platform: strings.TrimSpace(r.URL.Query().Get("platform")),
			Genre:    strings.TrimSpace(r.URL.Query().Get("genre")),
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		}

		views, err := svc.Filter(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"games": views})
	}
}

// AddGame records a promotion by hand, mirroring what the scrapers do.
func AddGame(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		game, inserted, err := svc.Add(r.Context(), games.AddGameInput{
			Title:    req.Title,
			Platform: req.Platform,
			URL:      req.URL,
			EndDate:  req.EndDate,
			Genre:    req.Genre,
			Language: req.Language,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if !inserted {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"game":     games.ToView(*game),
			"inserted": inserted,
		})
	}
}

// ClaimGame marks every active copy of the promotion URL as claimed.
func ClaimGame(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req claimGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.MarkClaimed(r.Context(), req.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if updated == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active game matches that url"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"claimed": updated})
	}
}

// SetGameGenre tags every tracked row of a (title, platform) pair.
func SetGameGenre(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setGenreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.SetGenre(r.Context(), req.Title, req.Platform, req.Genre)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": updated})
	}
}

// OwnGame folds a game into the owned library.
func OwnGame(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ownGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		game, err := svc.MarkOwned(r.Context(), games.MarkOwnedInput{
			Title:    req.Title,
			Platform: req.Platform,
			URL:      req.URL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"game": games.ToView(*game)})
	}
}
