package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/yougen/yougen/internal/config"
)

func setupTestDB(t *testing.T) *Context {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("YOUGEN_DIR", tmp)

	ctx, err := CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestDatabaseCreationAndMigration(t *testing.T) {
	ctx := setupTestDB(t)

	dbPath := filepath.Join(config.GetDataDir(), "yougen.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist at %s: %v", dbPath, err)
	}

	for _, table := range []string{"kv_entries", "schema_migrations"} {
		if !tableExists(t, ctx.DB, table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestCreateDatabaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "yougen.db")

	first, err := CreateDatabase(path)
	if err != nil {
		t.Fatalf("first CreateDatabase returned error: %v", err)
	}
	insertValue(t, first.DB, "yougen_notes", "[]")
	if err := CloseDatabase(first); err != nil {
		t.Fatalf("CloseDatabase returned error: %v", err)
	}

	second, err := CreateDatabase(path)
	if err != nil {
		t.Fatalf("second CreateDatabase returned error: %v", err)
	}
	defer func() {
		_ = CloseDatabase(second)
	}()

	assertCount(t, second.DB, "kv_entries", 1)
}

func TestInMemoryDatabase(t *testing.T) {
	ctx, err := CreateDatabase(MemoryPath)
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}
	defer func() {
		_ = CloseDatabase(ctx)
	}()

	insertValue(t, ctx.DB, "yougen_chats", "[]")
	assertCount(t, ctx.DB, "kv_entries", 1)
}

func TestSchemaVersionRecorded(t *testing.T) {
	ctx := setupTestDB(t)
	if ctx.SchemaVersion != 1 {
		t.Fatalf("expected schema version 1, got %d", ctx.SchemaVersion)
	}
}

func TestCloseNilContext(t *testing.T) {
	if err := CloseDatabase(nil); err != nil {
		t.Fatalf("CloseDatabase(nil) returned error: %v", err)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("tableExists query failed for %s: %v", table, err)
	}
	return true
}

func insertValue(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO kv_entries(key, value) VALUES(?, ?)`, key, []byte(value)); err != nil {
		t.Fatalf("insertValue failed: %v", err)
	}
}

func assertCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count query failed for %s: %v", table, err)
	}
	if count != expected {
		t.Fatalf("expected %s to have %d rows, got %d", table, expected, count)
	}
}
