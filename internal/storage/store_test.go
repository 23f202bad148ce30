package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []struct{ score, tile int }{{100, 16}, {50, 8}, {200, 32}} {
		if _, err := store.SaveScore("2048", s.score, s.tile); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("2048_endless", 500, 64); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	got := []int{scores[0].Score, scores[1].Score, scores[2].Score}
	if diff := cmp.Diff([]int{200, 100, 50}, got); diff != "" {
		t.Errorf("TopScores order mismatch (-want +got):\n%s", diff)
	}
	if scores[0].MaxTile != 32 {
		t.Errorf("MaxTile = %d, want 32", scores[0].MaxTile)
	}

	endless, err := store.TopScores("2048_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore("test", (i+1)*100, 4) //nolint:errcheck
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("AllScores() = %d entries, want 5", len(all))
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("2048", 100, 8)          //nolint:errcheck
	store.SaveScore("2048", 300, 32)         //nolint:errcheck
	store.SaveScore("2048_endless", 900, 64) //nolint:errcheck

	if high, _ = store.HighScore("2048"); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if left, _ := store.TopScores("2048", 10); len(left) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(left))
	}
	if other, _ := store.TopScores("2048_endless", 10); len(other) != 1 {
		t.Error("Clearing one mode must not touch another")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveScore("2048", 100, 16) //nolint:errcheck
	store.SaveScore("2048", 300, 64) //nolint:errcheck

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.BestTile != 64 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
}

func TestStoreSavedGameRoundTrip(t *testing.T) {
	store := openTestStore(t)

	saved := SavedGame{
		Player: "alice",
		GameID: "2048",
		Level:  3,
		Score:  1240,
		Grid: engine.Grid{
			{2, 4, 8, 16},
			{0, 0, 2, 0},
			{0, 0, 0, 0},
			{128, 0, 0, 4},
		},
	}
	if err := store.SaveGame(saved); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	got, err := store.LoadGame("alice", "2048")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if got.Grid != saved.Grid || got.Score != saved.Score || got.Level != saved.Level {
		t.Errorf("LoadGame() = %+v, want %+v", got, saved)
	}

	saved.Score = 2000
	saved.Grid[1][1] = 2
	if err := store.SaveGame(saved); err != nil {
		t.Fatalf("SaveGame() upsert failed: %v", err)
	}
	got, _ = store.LoadGame("alice", "2048")
	if got.Score != 2000 || got.Grid[1][1] != 2 {
		t.Errorf("upsert did not replace the save: %+v", got)
	}

	if err := store.DeleteGame("alice", "2048"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if _, err := store.LoadGame("alice", "2048"); !errors.Is(err, ErrNoSavedGame) {
		t.Errorf("LoadGame() after delete err = %v, want ErrNoSavedGame", err)
	}
}

func TestStoreLoadGameRejectsCorruptGrid(t *testing.T) {
	store := openTestStore(t)

	_, err := store.db.Exec(
		`INSERT INTO saved_games (player, game_id, score, grid) VALUES (?, ?, ?, ?)`,
		"bob", "2048", 10, `[[3,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]]`,
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadGame("bob", "2048"); !errors.Is(err, engine.ErrInvalidTile) {
		t.Errorf("err = %v, want ErrInvalidTile", err)
	}
}
