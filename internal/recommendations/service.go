package recommendations

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

const topRecommendations = 3

type gamesLister interface {
	ListByStatus(ctx context.Context, status enums.GameStatus) ([]models.Game, error)
}

// Service suggests active promotions that resemble the owned library,
// ranked by mean cosine similarity between title embeddings.
type Service interface {
	RecommendGames(ctx context.Context) ([]games.GameView, error)
}

type service struct {
	log      *logger.Logger
	repo     gamesLister
	embedder Embedder
}

// NewService builds the recommendation service.
func NewService(log *logger.Logger, repo gamesLister, embedder Embedder) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	return &service{log: log, repo: repo, embedder: embedder}, nil
}

// RecommendGames returns up to three active promotions closest to the owned
// library. An embedding failure degrades to an empty result; promotions
// should not break because the recommender is down.
func (s *service) RecommendGames(ctx context.Context) ([]games.GameView, error) {
	owned, err := s.repo.ListByStatus(ctx, enums.GameStatusOwned)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned games")
	}
	active, err := s.repo.ListByStatus(ctx, enums.GameStatusActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active games")
	}
	if len(owned) == 0 || len(active) == 0 {
		return []games.GameView{}, nil
	}

	ownedVectors, err := s.embedTitles(ctx, owned)
	if err != nil {
		s.log.Warn(ctx, fmt.Sprintf("recommendations unavailable: %v", err))
		return []games.GameView{}, nil
	}
	activeVectors, err := s.embedTitles(ctx, active)
	if err != nil {
		s.log.Warn(ctx, fmt.Sprintf("recommendations unavailable: %v", err))
		return []games.GameView{}, nil
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(active))
	for i, vector := range activeVectors {
		var total float64
		for _, ownedVector := range ownedVectors {
			total += cosineSimilarity(vector, ownedVector)
		}
		scores[i] = scored{index: i, score: total / float64(len(ownedVectors))}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	limit := topRecommendations
	if limit > len(scores) {
		limit = len(scores)
	}
	views := make([]games.GameView, 0, limit)
	for _, entry := range scores[:limit] {
		views = append(views, games.ToView(active[entry.index]))
	}
	return views, nil
}

func (s *service) embedTitles(ctx context.Context, rows []models.Game) ([][]float64, error) {
	vectors := make([][]float64, len(rows))
	for i, row := range rows {
		vector, err := s.embedder.Embed(ctx, row.Title)
		if err != nil {
			return nil, fmt.Errorf("embed %q: %w", row.Title, err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
