package games

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"gorm.io/gorm"
)

type gamesRepository interface {
	Insert(ctx context.Context, game *models.Game) (bool, error)
	FindByTitlePlatformStatus(ctx context.Context, title, platform string, status enums.GameStatus) (*models.Game, error)
	Save(ctx context.Context, game *models.Game) error
	ClaimActiveByURL(ctx context.Context, url string, claimDate time.Time) (int64, error)
	SetGenre(ctx context.Context, title, platform, genre string) (int64, error)
	ListByStatus(ctx context.Context, status enums.GameStatus) ([]models.Game, error)
	StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error)
	Filter(ctx context.Context, params FilterParams) ([]models.Game, error)
}

// Service exposes promotion tracking semantics: recording offers, claiming
// them, folding them into the owned library, and listing them.
type Service interface {
	Add(ctx context.Context, input AddGameInput) (*models.Game, bool, error)
	MarkClaimed(ctx context.Context, url string) (int64, error)
	MarkOwned(ctx context.Context, input MarkOwnedInput) (*models.Game, error)
	SetGenre(ctx context.Context, title, platform, genre string) (int64, error)
	ListByStatus(ctx context.Context, status enums.GameStatus) ([]GameView, error)
	Filter(ctx context.Context, params FilterParams) ([]GameView, error)
	StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error)
}

type service struct {
	repo gamesRepository
	now  func() time.Time
}

// AddGameInput holds the fields required to record a promotion.
type AddGameInput struct {
	Title    string
	Platform string
	URL      string
	EndDate  *string
	Genre    *string
	Language *string
}

// MarkOwnedInput identifies a game to fold into the owned library.
type MarkOwnedInput struct {
	Title           string
	Platform        string
	URL             string
	AcquisitionDate *time.Time
}

// NewService builds the game service backed by the provided repository.
func NewService(repo gamesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Add(ctx context.Context, input AddGameInput) (*models.Game, bool, error) {
	title := strings.TrimSpace(input.Title)
	platform := strings.TrimSpace(input.Platform)
	url := strings.TrimSpace(input.URL)
	if title == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if platform == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "platform is required")
	}
	if url == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}

	game := &models.Game{
		Title:    title,
		Platform: enums.Platform(platform),
		Status:   enums.GameStatusActive,
		URL:      url,
		EndDate:  input.EndDate,
		Genre:    input.Genre,
		Language: input.Language,
	}
	inserted, err := s.repo.Insert(ctx, game)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert game")
	}
	return game, inserted, nil
}

func (s *service) MarkClaimed(ctx context.Context, url string) (int64, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}
	updated, err := s.repo.ClaimActiveByURL(ctx, url, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim game")
	}
	return updated, nil
}

// MarkOwned records ownership as its own row for the (title, platform)
// pair. Rows in other statuses are left alone so the claim history
// survives; repeated calls refresh the existing owned row.
func (s *service) MarkOwned(ctx context.Context, input MarkOwnedInput) (*models.Game, error) {
	title := strings.TrimSpace(input.Title)
	platform := strings.TrimSpace(input.Platform)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if platform == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "platform is required")
	}

	acquiredAt := s.now().UTC()
	if input.AcquisitionDate != nil {
		acquiredAt = input.AcquisitionDate.UTC()
	}

	existing, err := s.repo.FindByTitlePlatformStatus(ctx, title, platform, enums.GameStatusOwned)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owned game")
	}
	if existing != nil {
		existing.AcquisitionDate = &acquiredAt
		if input.URL != "" {
			existing.URL = input.URL
		}
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update owned game")
		}
		return existing, nil
	}

	game := &models.Game{
		Title:           title,
		Platform:        enums.Platform(platform),
		Status:          enums.GameStatusOwned,
		URL:             input.URL,
		AcquisitionDate: &acquiredAt,
	}
	if _, err := s.repo.Insert(ctx, game); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert owned game")
	}
	return game, nil
}

// SetGenre tags every row of a (title, platform) pair. Untracked pairs
// simply report zero updated rows.
func (s *service) SetGenre(ctx context.Context, title, platform, genre string) (int64, error) {
	title = strings.TrimSpace(title)
	platform = strings.TrimSpace(platform)
	genre = strings.TrimSpace(genre)
	if title == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if platform == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "platform is required")
	}
	if genre == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "genre is required")
	}
	updated, err := s.repo.SetGenre(ctx, title, platform, genre)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set genre")
	}
	return updated, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.GameStatus) ([]GameView, error) {
	if !status.IsValid() {
		return []GameView{}, nil
	}
	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list games")
	}
	return toViews(rows), nil
}

func (s *service) Filter(ctx context.Context, params FilterParams) ([]GameView, error) {
	if !params.Status.IsValid() {
		return []GameView{}, nil
	}
	rows, err := s.repo.Filter(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "filter games")
	}
	return toViews(rows), nil
}

func (s *service) StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count games")
	}
	return counts, nil
}
