package migration

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
		"002_second.sql": {Data: []byte("CREATE TABLE b (id TEXT PRIMARY KEY);")},
		"notes.txt":      {Data: []byte("ignored")},
	}

	runner := NewRunner(db, fsys)

	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
	}

	runner := NewRunner(db, fsys)
	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no migrations on second run, got %d", applied)
	}
}

func TestApplyRejectsBadFilename(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"init.sql": {Data: []byte("CREATE TABLE a (id TEXT);")},
	}

	runner := NewRunner(db, fsys)
	if _, err := runner.Apply(nil); err == nil {
		t.Error("expected error for filename without version prefix")
	}
}

func TestValidateNewerDatabase(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
	}

	runner := NewRunner(db, fsys)
	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Simulate a database written by a newer build.
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to clear version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}

	if err := runner.Validate(); err == nil {
		t.Error("expected Validate to reject a newer schema version")
	}
}
