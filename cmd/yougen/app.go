package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/backend"
	"github.com/yougen/yougen/internal/config"
	"github.com/yougen/yougen/internal/database"
	"github.com/yougen/yougen/internal/kv"
	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
)

// app bundles everything a command needs. Close releases the medium.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	db      *database.Context
	library *services.LibraryService
	chat    *services.ChatService
	notes   *services.NoteService
}

func openApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.medium != "" {
		cfg.Medium = strings.ToLower(opts.medium)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	var medium kv.Medium
	switch cfg.Medium {
	case config.MediumSQLite:
		dbCtx, err := database.CreateDatabase(cfg.DBPath())
		if err != nil {
			return nil, err
		}
		a.db = dbCtx
		medium = database.NewKVRepository(dbCtx)
	case config.MediumFile:
		medium = kv.NewDir(cfg.KVDir())
	case config.MediumMemory:
		medium = kv.NewMemory()
	default:
		return nil, fmt.Errorf("unsupported medium: %s", cfg.Medium)
	}

	a.store = store.New(medium, store.Options{Logger: logger})

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout(),
	})
	a.library = services.NewLibraryService(a.store, client, logger)
	a.chat = services.NewChatService(a.store, a.library, client, logger)
	a.notes = services.NewNoteService(a.store, logger)

	logger.Debug("storage opened", "medium", cfg.Medium, "data_dir", cfg.DataDir)
	return a, nil
}

func (a *app) Close() {
	if a == nil {
		return
	}
	_ = database.CloseDatabase(a.db)
}

// withApp opens the app for the duration of fn.
func withApp(opts *rootOptions, fn func(*app) error) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func checkFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "table", "Output format: table or json")
}
