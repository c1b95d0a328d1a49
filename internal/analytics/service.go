package analytics

import (
	"context"
	"fmt"

	"github.com/arcadehq/freegames-backend/pkg/enums"
	pkgerrors "github.com/arcadehq/freegames-backend/pkg/errors"
)

// platformColors follow the arcade palette used by the dashboard chart.
var platformColors = []string{
	"#00FFFF",
	"#FF69B4",
	"#FFD700",
	"#00FF00",
	"#FF4500",
	"#9370DB",
	"#FF8C00",
	"#7FFF00",
}

type gamesCounter interface {
	StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error)
	OwnedCountsByPlatform(ctx context.Context) (map[string]int64, error)
}

// Service aggregates collection statistics for the dashboard.
type Service interface {
	StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error)
	PlatformChart(ctx context.Context) (*Chart, error)
}

// Chart is a renderable bar-chart payload of owned games per platform.
type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// ChartData carries the labels and datasets of a chart.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one series of a chart.
type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []int64  `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
}

// ChartOptions controls chart rendering.
type ChartOptions struct {
	Scales map[string]map[string]bool `json:"scales"`
}

type service struct {
	repo gamesCounter
}

// NewService builds the analytics service.
func NewService(repo gamesCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) StatusCounts(ctx context.Context) (map[enums.GameStatus]int64, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count games")
	}
	// Absent statuses still get a zero entry so the dashboard renders a
	// stable set of tiles.
	for _, status := range enums.GameStatuses() {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}

// PlatformChart builds a bar chart of owned games across every known
// platform, zero-filled so the axis stays stable between refreshes.
func (s *service) PlatformChart(ctx context.Context) (*Chart, error) {
	owned, err := s.repo.OwnedCountsByPlatform(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count owned games")
	}

	platforms := enums.Platforms()
	labels := make([]string, len(platforms))
	data := make([]int64, len(platforms))
	colors := make([]string, len(platforms))
	for i, platform := range platforms {
		labels[i] = platform.String()
		data[i] = owned[platform.String()]
		colors[i] = platformColors[i%len(platformColors)]
	}

	return &Chart{
		Type: "bar",
		Data: ChartData{
			Labels: labels,
			Datasets: []ChartDataset{{
				Label:           "Games Owned",
				Data:            data,
				BackgroundColor: colors,
			}},
		},
		Options: ChartOptions{
			Scales: map[string]map[string]bool{
				"y": {"beginAtZero": true},
			},
		},
	}, nil
}
