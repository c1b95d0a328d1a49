package library

import (
	"context"
	"errors"
	"testing"

	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/pkg/db/models"
	"github.com/arcadehq/freegames-backend/pkg/logger"
)

type fakeSteam struct {
	owned  []OwnedGame
	recent []OwnedGame
	err    error
}

func (f *fakeSteam) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.owned, nil
}

func (f *fakeSteam) RecentlyPlayed(ctx context.Context, steamID string) ([]OwnedGame, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recent, nil
}

type fakeGamesWriter struct {
	marked  []games.MarkOwnedInput
	failFor string
}

func (f *fakeGamesWriter) MarkOwned(ctx context.Context, input games.MarkOwnedInput) (*models.Game, error) {
	if input.Title == f.failFor {
		return nil, errors.New("boom")
	}
	f.marked = append(f.marked, input)
	return &models.Game{Title: input.Title}, nil
}

type fakePlaytimeWriter struct {
	updates map[string]int
	misses  map[string]bool
}

func (f *fakePlaytimeWriter) SetPlaytime(ctx context.Context, title, platform string, minutes int) (int64, error) {
	if f.misses[title] {
		return 0, nil
	}
	if f.updates == nil {
		f.updates = map[string]int{}
	}
	f.updates[title] = minutes
	return 1, nil
}

func newLibraryService(t *testing.T, steam *fakeSteam, writer *fakeGamesWriter, playtime *fakePlaytimeWriter) Service {
	t.Helper()
	svc, err := NewService(logger.New(logger.Options{ServiceName: "test"}), steam, writer, playtime)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestImportSteamLibraryMarksGamesOwned(t *testing.T) {
	steam := &fakeSteam{owned: []OwnedGame{
		{AppID: 1145360, Name: "Hades"},
		{AppID: 504230, Name: "Celeste"},
		{AppID: 99, Name: ""},
	}}
	writer := &fakeGamesWriter{}
	svc := newLibraryService(t, steam, writer, &fakePlaytimeWriter{})

	imported, err := svc.ImportSteamLibrary(context.Background(), "7656")
	if err != nil {
		t.Fatalf("ImportSteamLibrary: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 imports, got %d", imported)
	}
	if writer.marked[0].Platform != "Steam" {
		t.Fatalf("unexpected platform %s", writer.marked[0].Platform)
	}
	if writer.marked[0].URL != "https://store.steampowered.com/app/1145360" {
		t.Fatalf("unexpected url %s", writer.marked[0].URL)
	}
}

func TestImportSteamLibrarySkipsFailedEntries(t *testing.T) {
	steam := &fakeSteam{owned: []OwnedGame{
		{AppID: 1, Name: "Broken"},
		{AppID: 2, Name: "Fine"},
	}}
	writer := &fakeGamesWriter{failFor: "Broken"}
	svc := newLibraryService(t, steam, writer, &fakePlaytimeWriter{})

	imported, err := svc.ImportSteamLibrary(context.Background(), "7656")
	if err != nil {
		t.Fatalf("ImportSteamLibrary: %v", err)
	}
	if imported != 1 {
		t.Fatalf("expected 1 import, got %d", imported)
	}
}

func TestSyncSteamPlaytimeCountsOnlyMatches(t *testing.T) {
	steam := &fakeSteam{recent: []OwnedGame{
		{AppID: 1, Name: "Hades", PlaytimeForever: 1200},
		{AppID: 2, Name: "Unknown", PlaytimeForever: 30},
	}}
	playtime := &fakePlaytimeWriter{misses: map[string]bool{"Unknown": true}}
	svc := newLibraryService(t, steam, &fakeGamesWriter{}, playtime)

	updated, err := svc.SyncSteamPlaytime(context.Background(), "7656")
	if err != nil {
		t.Fatalf("SyncSteamPlaytime: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 update, got %d", updated)
	}
	if playtime.updates["Hades"] != 1200 {
		t.Fatalf("unexpected playtime %d", playtime.updates["Hades"])
	}
}

func TestImportSteamLibraryPropagatesFetchErrors(t *testing.T) {
	svc := newLibraryService(t, &fakeSteam{err: errors.New("api down")}, &fakeGamesWriter{}, &fakePlaytimeWriter{})
	if _, err := svc.ImportSteamLibrary(context.Background(), "7656"); err == nil {
		t.Fatal("expected error")
	}
}
