package janitor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipsheet/clipsheet-agent/internal/db"
	"github.com/clipsheet/clipsheet-agent/internal/store"
)

func testRepo(t *testing.T) *store.SQLiteRepository {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return store.NewRepository(database.Conn())
}

func seedUpload(t *testing.T, repo *store.SQLiteRepository, dir, name string, age time.Duration) *store.Upload {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	u := &store.Upload{
		ID:        store.NewID(),
		Filename:  name,
		Path:      path,
		Size:      4,
		CreatedAt: time.Now().UTC().Add(-age),
	}
	if err := repo.CreateUpload(context.Background(), u); err != nil {
		t.Fatalf("CreateUpload() error = %v", err)
	}
	return u
}

func TestSweep(t *testing.T) {
	repo := testRepo(t)
	dir := t.TempDir()

	old := seedUpload(t, repo, dir, "old.prproj", 48*time.Hour)
	fresh := seedUpload(t, repo, dir, "fresh.prproj", time.Hour)

	j := New(repo, 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	removed, err := j.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(old.Path); !os.IsNotExist(err) {
		t.Errorf("expired file still on disk: %v", err)
	}
	if got, err := repo.GetUpload(context.Background(), old.ID); err != nil || got != nil {
		t.Errorf("expired row survived: %v, %v", got, err)
	}

	if _, err := os.Stat(fresh.Path); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
	if got, err := repo.GetUpload(context.Background(), fresh.ID); err != nil || got == nil {
		t.Errorf("fresh row missing: %v, %v", got, err)
	}
}

func TestSweep_MissingFileStillDeletesRow(t *testing.T) {
	repo := testRepo(t)
	dir := t.TempDir()

	old := seedUpload(t, repo, dir, "gone.prproj", 48*time.Hour)
	if err := os.Remove(old.Path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	j := New(repo, 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	removed, err := j.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if got, err := repo.GetUpload(context.Background(), old.ID); err != nil || got != nil {
		t.Errorf("row survived: %v, %v", got, err)
	}
}

func TestSweep_Empty(t *testing.T) {
	repo := testRepo(t)
	j := New(repo, 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	removed, err := j.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
