package storage

import (
	"os"
	"path/filepath"
	"testing"
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

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetHighScore(GameID, 12); err != nil {
		t.Fatalf("SetHighScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore(GameID)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 12 {
		t.Errorf("Expected high score 12 after reopen, got %d", high)
	}
}

func TestStoreGetSet(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; expected absent", ok, err)
	}

	if err := store.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("theme", "light"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	value, ok, err := store.Get("theme")
	if err != nil || !ok {
		t.Fatalf("Get(theme) = ok %v, err %v", ok, err)
	}
	if value != "light" {
		t.Errorf("Expected latest value 'light', got %q", value)
	}
}

func TestStoreHighScoreRead(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected int
	}{
		{"number", "42", 42},
		{"zero", "0", 0},
		{"garbage", "not a number", 0},
		{"empty", "", 0},
		{"negative", "-7", 0},
		{"float", "3.5", 0},
		{"trailing junk", "12abc", 0},
		{"plus sign", "+5", 0},
		{"leading zeros", "007", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTestStore(t)
			if err := store.Set(highScoreKey(GameID), tt.stored); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			high, err := store.HighScore(GameID)
			if err != nil {
				t.Fatalf("HighScore() failed: %v", err)
			}
			if high != tt.expected {
				t.Errorf("HighScore() = %d, expected %d", high, tt.expected)
			}
		})
	}
}

func TestStoreHighScoreMissing(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore(GameID)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty store, got %d", high)
	}
}

func TestStoreSetHighScoreNeverLowers(t *testing.T) {
	store := openTestStore(t)

	steps := []struct {
		set      int
		expected int
	}{
		{5, 5},
		{3, 5},
		{5, 5},
		{9, 9},
		{10, 10},
		{2, 10},
	}
	for _, step := range steps {
		if err := store.SetHighScore(GameID, step.set); err != nil {
			t.Fatalf("SetHighScore(%d) failed: %v", step.set, err)
		}
		high, _ := store.HighScore(GameID)
		if high != step.expected {
			t.Errorf("after SetHighScore(%d): got %d, expected %d", step.set, high, step.expected)
		}
	}
}

func TestStoreSetHighScoreReplacesCorrupt(t *testing.T) {
	store := openTestStore(t)
	store.Set(highScoreKey(GameID), "garbage")

	if err := store.SetHighScore(GameID, 3); err != nil {
		t.Fatalf("SetHighScore() failed: %v", err)
	}
	high, _ := store.HighScore(GameID)
	if high != 3 {
		t.Errorf("Expected corrupt value to be replaced by 3, got %d", high)
	}
}

// Whatever is stored, a write leaves the larger of what HighScore read
// before and the new score.
func TestStoreSetHighScoreAgreesWithRead(t *testing.T) {
	stored := []string{"", "garbage", "12abc", "-7", "+5", "3.5", "2", "9", "007"}

	for _, raw := range stored {
		t.Run(raw, func(t *testing.T) {
			store := openTestStore(t)
			if err := store.Set(highScoreKey(GameID), raw); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			before, _ := store.HighScore(GameID)

			if err := store.SetHighScore(GameID, 4); err != nil {
				t.Fatalf("SetHighScore() failed: %v", err)
			}
			after, _ := store.HighScore(GameID)
			if expected := max(before, 4); after != expected {
				t.Errorf("stored %q: HighScore() = %d after writing 4, expected %d", raw, after, expected)
			}
		})
	}
}

func TestStoreHighScorePerGame(t *testing.T) {
	store := openTestStore(t)
	store.SetHighScore(GameID, 8)
	store.SetHighScore("other", 30)

	if high, _ := store.HighScore(GameID); high != 8 {
		t.Errorf("Expected 8, got %d", high)
	}
	if high, _ := store.HighScore("other"); high != 30 {
		t.Errorf("Expected 30, got %d", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{10, 5, 20} {
		if _, err := store.SaveScore(GameID, score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	// Different game
	if _, err := store.SaveScore("other", 50); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores(GameID, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 20 || scores[1].Score != 10 || scores[2].Score != 5 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	for _, s := range scores {
		if s.GameID != GameID {
			t.Errorf("Unexpected game %q in results", s.GameID)
		}
		if s.CreatedAt.IsZero() {
			t.Error("CreatedAt should be set")
		}
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore(GameID, i+1)
	}

	scores, err := store.TopScores(GameID, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	if scores[0].Score != 5 || scores[1].Score != 4 || scores[2].Score != 3 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreRecentScores(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{7, 1, 4} {
		store.SaveScore(GameID, score)
	}

	scores, err := store.RecentScores(GameID, 2)
	if err != nil {
		t.Fatalf("RecentScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	if scores[0].Score != 4 || scores[1].Score != 1 {
		t.Errorf("Expected newest first [4 1], got %v", scores)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats(GameID)
	if err != nil {
		t.Fatalf("Stats() on empty store failed: %v", err)
	}
	if empty.Runs != 0 || empty.BestRun != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected zero stats, got %+v", empty)
	}

	for _, score := range []int{2, 4, 9} {
		store.SaveScore(GameID, score)
	}

	stats, err := store.Stats(GameID)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 {
		t.Errorf("Expected 3 runs, got %d", stats.Runs)
	}
	if stats.BestRun != 9 {
		t.Errorf("Expected best run 9, got %d", stats.BestRun)
	}
	if stats.TotalScore != 15 {
		t.Errorf("Expected total 15, got %d", stats.TotalScore)
	}
	if stats.AvgScore != 5 {
		t.Errorf("Expected average 5, got %v", stats.AvgScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(GameID, 10)
	store.SaveScore(GameID, 20)
	store.SetHighScore(GameID, 20)
	store.SaveScore("other", 30)

	if err := store.ClearScores(GameID); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores(GameID, 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if high, _ := store.HighScore(GameID); high != 0 {
		t.Errorf("Expected high score reset, got %d", high)
	}

	other, _ := store.TopScores("other", 10)
	if len(other) != 1 {
		t.Errorf("Other game should not be affected by clearing")
	}
}
