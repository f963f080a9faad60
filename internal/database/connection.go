// Package database provides the SQLite-backed storage medium for yougen.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/yougen/yougen/db/migrations"
	"github.com/yougen/yougen/internal/config"
	sqldb "github.com/yougen/yougen/internal/database/sqlc"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

// Context holds an open medium database.
type Context struct {
	DB      *sql.DB
	Queries *sqldb.Queries
	// SchemaVersion is the migration the database was brought up to.
	SchemaVersion uint
}

// CreateDatabase opens the database at dbPath and applies pending
// migrations. An empty path resolves to the default location under the data
// directory.
func CreateDatabase(dbPath string) (*Context, error) {
	if dbPath == "" {
		dbPath = config.GetDBPath()
	}

	dsn, err := dataSourceName(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each collection write is one statement. A single connection keeps those
	// writes ordered and keeps an in-memory database alive between calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	version, err := runMigrations(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Context{
		DB:            db,
		Queries:       sqldb.New(db),
		SchemaVersion: version,
	}, nil
}

// CloseDatabase closes the database connection.
func CloseDatabase(ctx *Context) error {
	if ctx == nil || ctx.DB == nil {
		return nil
	}
	return ctx.DB.Close()
}

func dataSourceName(path string) (string, error) {
	pragmas := url.Values{}
	pragmas.Add("_pragma", "busy_timeout(5000)")

	if path == MemoryPath {
		return "file::memory:?" + pragmas.Encode(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}

	pragmas.Add("_pragma", "journal_mode(WAL)")
	return "file:" + filepath.ToSlash(absPath) + "?" + pragmas.Encode(), nil
}

func runMigrations(db *sql.DB) (uint, error) {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("failed to initialise migrate driver: %w", err)
	}

	source, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer func() {
		_ = source.Close()
	}()

	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

func queriesFromContext(ctx *Context) *sqldb.Queries {
	if ctx == nil {
		return nil
	}
	if ctx.Queries != nil {
		return ctx.Queries
	}
	if ctx.DB == nil {
		return nil
	}
	return sqldb.New(ctx.DB)
}
