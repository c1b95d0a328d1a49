package pricing

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type priceWriter interface {
	SetPrice(ctx context.Context, title, platform string, price decimal.Decimal) (int64, error)
}

// Service records observed retail prices against tracked games, so the
// library can show what a claimed freebie was worth.
type Service interface {
	RecordPrice(ctx context.Context, title, platform string, price decimal.Decimal) (int64, error)
}

type service struct {
	log  *logger.Logger
	repo priceWriter
}

// NewService builds the pricing service.
func NewService(log *logger.Logger, repo priceWriter) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{log: log, repo: repo}, nil
}

// RecordPrice stamps the price on every row tracking the (title, platform)
// pair. An unknown game is not an error; it is logged and reported as zero
// rows updated.
func (s *service) RecordPrice(ctx context.Context, title, platform string, price decimal.Decimal) (int64, error) {
	title = strings.TrimSpace(title)
	platform = strings.TrimSpace(platform)
	if title == "" || platform == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "title and platform are required")
	}
	if price.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	updated, err := s.repo.SetPrice(ctx, title, platform, price)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record price")
	}
	if updated == 0 {
		warnCtx := s.log.WithFields(ctx, map[string]any{
			"title":    title,
			"platform": platform,
		})
		s.log.Warn(warnCtx, "price recorded for untracked game")
	}
	return updated, nil
}
