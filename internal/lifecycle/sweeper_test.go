package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/enums"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/google/uuid"
)

type fakeSweepRepo struct {
	rows     []models.Game
	listErr  error
	markErr  error
	expired  map[uuid.UUID]string
	inactive map[uuid.UUID]bool
}

func (f *fakeSweepRepo) ListActiveWithEndDate(ctx context.Context) ([]models.Game, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeSweepRepo) MarkExpired(ctx context.Context, id uuid.UUID, epitaph string) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.inactive[id] {
		return false, nil
	}
	if f.expired == nil {
		f.expired = map[uuid.UUID]string{}
	}
	f.expired[id] = epitaph
	return true, nil
}

func newSweeper(t *testing.T, repo *fakeSweepRepo) *Sweeper {
	t.Helper()
	sweeper, err := NewSweeper(logger.New(logger.Options{ServiceName: "test"}), repo)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	sweeper.pickIdx = func(n int) int { return 0 }
	return sweeper
}

func gameRow(title, endDate string) models.Game {
	return models.Game{
		ID:       uuid.New(),
		Title:    title,
		Platform: "Epic",
		Status:   enums.GameStatusActive,
		EndDate:  &endDate,
	}
}

func TestSweepExpiresOnlyPastDeadlines(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := gameRow("Old Offer", "2026-02-28T00:00:00Z")
	exact := gameRow("On The Dot", "2026-03-01T12:00:00Z")
	future := gameRow("Fresh Offer", "2026-03-02")
	repo := &fakeSweepRepo{rows: []models.Game{past, exact, future}}

	result, err := newSweeper(t, repo).Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Scanned != 3 || result.Expired != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, ok := repo.expired[past.ID]; !ok {
		t.Fatal("expected past offer to expire")
	}
	if _, ok := repo.expired[exact.ID]; ok {
		t.Fatal("deadline exactly at now must not expire")
	}
	if _, ok := repo.expired[future.ID]; ok {
		t.Fatal("future offer must not expire")
	}
}

func TestSweepStampsEpitaph(t *testing.T) {
	row := gameRow("Doomed", "2020-01-01")
	repo := &fakeSweepRepo{rows: []models.Game{row}}

	if _, err := newSweeper(t, repo).Sweep(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if repo.expired[row.ID] != "Game Over: Unclaimed!" {
		t.Fatalf("unexpected epitaph %q", repo.expired[row.ID])
	}
}

func TestSweepSkipsUnparsableEndDates(t *testing.T) {
	garbage := gameRow("Mystery", "whenever")
	past := gameRow("Old Offer", "2020-01-01")
	repo := &fakeSweepRepo{rows: []models.Game{garbage, past}}

	result, err := newSweeper(t, repo).Sweep(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Unparsable != 1 || result.Expired != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, ok := repo.expired[garbage.ID]; ok {
		t.Fatal("unparsable end date must stay active")
	}
}

func TestSweepTreatsNaiveDeadlineAsUTC(t *testing.T) {
	row := gameRow("Naive", "2026-03-01T11:59:00")
	repo := &fakeSweepRepo{rows: []models.Game{row}}

	result, err := newSweeper(t, repo).Sweep(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Expired != 1 {
		t.Fatalf("expected naive deadline to expire, got %+v", result)
	}
}

func TestSweepSkipsRowsClaimedMidFlight(t *testing.T) {
	row := gameRow("Raced", "2020-01-01")
	repo := &fakeSweepRepo{
		rows:     []models.Game{row},
		inactive: map[uuid.UUID]bool{row.ID: true},
	}

	result, err := newSweeper(t, repo).Sweep(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Expired != 0 {
		t.Fatalf("expected no expirations, got %+v", result)
	}
}

func TestSweepIgnoresNonActiveRows(t *testing.T) {
	row := gameRow("Already Claimed", "2020-01-01")
	row.Status = enums.GameStatusClaimed
	repo := &fakeSweepRepo{rows: []models.Game{row}}

	result, err := newSweeper(t, repo).Sweep(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Expired != 0 {
		t.Fatalf("claimed rows must not expire, got %+v", result)
	}
}

func TestSweepPropagatesListErrors(t *testing.T) {
	repo := &fakeSweepRepo{listErr: errors.New("boom")}
	if _, err := newSweeper(t, repo).Sweep(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}
