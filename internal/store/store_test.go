package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "rehand-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "rehand-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"sessions", "settings"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func sampleRecord(id, game string, score int, started time.Time) *SessionRecord {
	metrics, _ := json.Marshal(map[string]any{"game_name": game, "score": score})
	return &SessionRecord{
		ID:              id,
		Game:            game,
		Score:           score,
		StartedAt:       started,
		DurationSeconds: 61.5,
		Metrics:         metrics,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	rec := sampleRecord("sess-1", "balloon_pop", 120, started)

	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID("sess-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Game != "balloon_pop" || got.Score != 120 {
		t.Errorf("got %s/%d, want balloon_pop/120", got.Game, got.Score)
	}
	if got.DurationSeconds != 61.5 {
		t.Errorf("duration = %f, want 61.5", got.DurationSeconds)
	}

	var metrics map[string]any
	if err := json.Unmarshal(got.Metrics, &metrics); err != nil {
		t.Fatalf("stored metrics are not valid JSON: %v", err)
	}
	if metrics["game_name"] != "balloon_pop" {
		t.Errorf("metrics game_name = %v, want balloon_pop", metrics["game_name"])
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("missing")
	if err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo.Create(sampleRecord("a", "balloon_pop", 10, base))
	repo.Create(sampleRecord("b", "maze_navigation", 90, base.Add(time.Hour)))
	repo.Create(sampleRecord("c", "balloon_pop", 30, base.Add(2*time.Hour)))

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].ID != "c" {
		t.Errorf("first = %s, want c (newest first)", all[0].ID)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len = %d, want 2", len(limited))
	}

	byGame, err := repo.ListByGame("balloon_pop", 0)
	if err != nil {
		t.Fatalf("ListByGame() error = %v", err)
	}
	if len(byGame) != 2 {
		t.Errorf("balloon_pop sessions = %d, want 2", len(byGame))
	}

	since, err := repo.ListSince(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("ListSince() error = %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("sessions since = %d, want 2", len(since))
	}
	if since[0].ID != "b" {
		t.Errorf("first = %s, want b (oldest first)", since[0].ID)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	repo.Create(sampleRecord("gone", "balloon_pop", 10, time.Now()))

	if err := repo.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID("gone"); err != ErrNotFound {
		t.Errorf("session should be gone, got err = %v", err)
	}
	if err := repo.Delete("gone"); err != ErrNotFound {
		t.Errorf("deleting twice should report ErrNotFound, got %v", err)
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get("missing"); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound for unknown key", err)
	}

	if err := settings.Set(CalibrationSettingKey, `{"pinch_threshold":48}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := settings.Get(CalibrationSettingKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `{"pinch_threshold":48}` {
		t.Errorf("value = %q", got)
	}

	// Overwrite
	if err := settings.Set(CalibrationSettingKey, `{"pinch_threshold":52}`); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, _ = settings.Get(CalibrationSettingKey)
	if got != `{"pinch_threshold":52}` {
		t.Errorf("value after overwrite = %q", got)
	}

	if err := settings.Delete(CalibrationSettingKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := settings.Get(CalibrationSettingKey); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound after delete", err)
	}
}
