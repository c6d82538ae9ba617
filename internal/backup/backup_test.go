package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steadyhq/steady/internal/storage"
)

func newStoreFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steady.db")
	store := storage.NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return path
}

func TestCreateAndList(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Size == 0 {
		t.Error("expected non-empty backup")
	}
}

func TestCreateFailsWithoutStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing store")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Lose the live store, then restore.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove store: %v", err)
	}
	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	store := storage.NewSQLiteStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("restored store failed to load: %v", err)
	}
	store.Close()
}

func TestRestoreRejectsGarbage(t *testing.T) {
	path := newStoreFile(t)
	mgr := NewManager(path)

	bad := filepath.Join(filepath.Dir(path), "bad.db")
	if err := os.WriteFile(bad, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write garbage: %v", err)
	}
	if err := mgr.Restore(bad); err == nil {
		t.Error("expected restore of garbage to fail")
	}
}

func TestJSONStoreBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steady.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init json store: %v", err)
	}

	mgr := NewManager(path)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("expected .json backup, got %s", backupPath)
	}
}
