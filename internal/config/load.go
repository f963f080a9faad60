package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Medium names accepted by Config.Medium.
const (
	MediumSQLite = "sqlite"
	MediumFile   = "file"
	MediumMemory = "memory"
)

// Config holds runtime configuration for the CLI, HTTP server and MCP server.
type Config struct {
	DataDir           string `toml:"data_dir"`
	Medium            string `toml:"medium"`
	LogLevel          string `toml:"log_level"`
	LogFormat         string `toml:"log_format"`
	Listen            string `toml:"listen"`
	APIURL            string `toml:"api_url"`
	APITimeoutSeconds int    `toml:"api_timeout_seconds"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		DataDir:           GetDataDir(),
		Medium:            MediumSQLite,
		LogLevel:          "info",
		LogFormat:         "text",
		Listen:            "127.0.0.1:8787",
		APIURL:            "http://localhost:8000/api",
		APITimeoutSeconds: 30,
	}
}

// Load builds the configuration from defaults, an optional TOML file, a .env
// file in the working directory and YOUGEN_* environment variables, in that
// order of increasing precedence. An empty path means the default config
// location, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	// Variables already present in the environment are not overridden.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = GetConfigPath()
	}
	if err := decodeFile(path, &cfg, explicit); err != nil {
		return nil, err
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config, required bool) error {
	//nolint:gosec // G304: path comes from the user's own flag or XDG config home
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config %s: %s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if value := os.Getenv("YOUGEN_DIR"); value != "" {
		cfg.DataDir = value
	}
	if value := os.Getenv("YOUGEN_MEDIUM"); value != "" {
		cfg.Medium = value
	}
	if value := os.Getenv("YOUGEN_LOG_LEVEL"); value != "" {
		cfg.LogLevel = value
	}
	if value := os.Getenv("YOUGEN_LOG_FORMAT"); value != "" {
		cfg.LogFormat = value
	}
	if value := os.Getenv("YOUGEN_LISTEN"); value != "" {
		cfg.Listen = value
	}
	if value := os.Getenv("YOUGEN_API_URL"); value != "" {
		cfg.APIURL = value
	}
	if value := os.Getenv("YOUGEN_API_TIMEOUT"); value != "" {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("YOUGEN_API_TIMEOUT must be an integer: %w", err)
		}
		cfg.APITimeoutSeconds = seconds
	}
	return nil
}

func (c *Config) normalize() {
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.Medium = strings.ToLower(strings.TrimSpace(c.Medium))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Listen = strings.TrimSpace(c.Listen)
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	switch c.Medium {
	case MediumSQLite, MediumFile, MediumMemory:
	default:
		return fmt.Errorf("medium: unsupported value %q (valid values: sqlite, file, memory)", c.Medium)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	if c.Listen == "" {
		return errors.New("listen must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url: must be an http(s) URL, got %q", c.APIURL)
	}
	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be greater than 0, got %d", c.APITimeoutSeconds)
	}
	return nil
}

// DBPath returns the SQLite medium location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "yougen.db")
}

// KVDir returns the file medium location inside DataDir.
func (c *Config) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}

// APITimeout returns the collaborator request timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}
