package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arcadehq/freegames-backend/internal/lifecycle"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/arcadehq/freegames-backend/pkg/pagination"
	"github.com/google/uuid"
)

const (
	newGamesTitle = "New Free Games"
	expiringTitle = "Expiring Free Games"
)

type gamesReader interface {
	ListActiveWithEndDate(ctx context.Context) ([]models.Game, error)
	ListByStatus(ctx context.Context, status enums.GameStatus) ([]models.Game, error)
}

// Service renders promotion events into notifications, stores them in-app,
// and fans them out to the configured channels.
type Service interface {
	NotifyNewGames(ctx context.Context) error
	NotifyExpiringGames(ctx context.Context, now time.Time) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

type service struct {
	log        *logger.Logger
	repo       Repository
	games      gamesReader
	channels   []Channel
	warnWindow time.Duration
	now        func() time.Time
}

// ListParams narrows an in-app notification listing.
type ListParams struct {
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult is one page of in-app notifications.
type ListResult struct {
	Items  []models.Notification
	Cursor string
}

// NewService builds the notification service.
func NewService(log *logger.Logger, repo Repository, games gamesReader, channels []Channel, warnWindow time.Duration) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if games == nil {
		return nil, fmt.Errorf("games repository required")
	}
	if warnWindow <= 0 {
		warnWindow = 24 * time.Hour
	}
	return &service{
		log:        log,
		repo:       repo,
		games:      games,
		channels:   channels,
		warnWindow: warnWindow,
		now:        time.Now,
	}, nil
}

// NotifyNewGames announces the promotions currently on offer, one line per
// active row, and stays silent when nothing is active. A channel failure is
// logged and never blocks the remaining channels.
func (s *service) NotifyNewGames(ctx context.Context) error {
	rows, err := s.games.ListByStatus(ctx, enums.GameStatusActive)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active games")
	}
	if len(rows) == 0 {
		return nil
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fmt.Sprintf("%s on %s: %s", row.Title, row.Platform, row.URL)
	}
	s.dispatch(ctx, enums.NotificationTypeNewGames, newGamesTitle, strings.Join(lines, "\n"))
	return nil
}

// NotifyExpiringGames announces active promotions ending within the warning
// window. Games whose end date cannot be parsed are skipped with a warning.
func (s *service) NotifyExpiringGames(ctx context.Context, now time.Time) error {
	rows, err := s.games.ListActiveWithEndDate(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expiring candidates")
	}

	horizon := now.UTC().Add(s.warnWindow)
	var lines []string
	for _, row := range rows {
		endsAt, err := lifecycle.ParseEndDate(*row.EndDate)
		if err != nil {
			warnCtx := s.log.WithFields(ctx, map[string]any{
				"game_id":  row.ID.String(),
				"title":    row.Title,
				"end_date": *row.EndDate,
			})
			s.log.Warn(warnCtx, "skipping expiry notice with unparsable end date")
			continue
		}
		if endsAt.Before(horizon) {
			lines = append(lines, fmt.Sprintf("%s on %s expires soon: %s", row.Title, row.Platform, *row.EndDate))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	s.dispatch(ctx, enums.NotificationTypeExpiringGames, expiringTitle, strings.Join(lines, "\n"))
	return nil
}

func (s *service) dispatch(ctx context.Context, kind enums.NotificationType, title, message string) {
	record := &models.Notification{
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.log.Error(ctx, "persist notification", err)
	}

	for _, channel := range s.channels {
		if err := channel.Notify(ctx, title, message); err != nil {
			warnCtx := s.log.WithField(ctx, "channel", channel.Name())
			s.log.Warn(warnCtx, fmt.Sprintf("notification channel failed: %v", err))
		}
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listNotificationsParams{
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	items, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	result := &ListResult{Items: items}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID) (bool, error) {
	if notificationID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "notification id is required")
	}
	mark, err := s.repo.MarkRead(ctx, notificationID, s.now().UTC())
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !mark.Found {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return mark.Updated, nil
}

func (s *service) MarkAllRead(ctx context.Context) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return updated, nil
}
