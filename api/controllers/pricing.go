package controllers

import (
	"net/http"

	"github.com/arcadehq/freegames-backend/api/responses"
	"github.com/arcadehq/freegames-backend/api/validators"
	"github.com/arcadehq/freegames-backend/internal/pricing"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type recordPriceRequest struct {
	Title    string `json:"title" validate:"required"`
	Platform string `json:"platform" validate:"required"`
	Price    string `json:"price" validate:"required"`
}

// RecordPrice stamps an observed retail price on a tracked game.
func RecordPrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordPriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal number"))
			return
		}

		updated, err := svc.RecordPrice(r.Context(), req.Title, req.Platform, price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": updated})
	}
}
