package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetDataDirWithExplicitEnv(t *testing.T) {
	tmpDir := t.TempDir()
	customDir := filepath.Join(tmpDir, "custom")

	t.Setenv("YOUGEN_DIR", customDir)
	t.Setenv("XDG_DATA_HOME", "")

	got := GetDataDir()
	if got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetDataDirFallsBackToXDG(t *testing.T) {
	tmpDir := t.TempDir()
	xdgDir := filepath.Join(tmpDir, "xdg")

	t.Setenv("YOUGEN_DIR", "")
	t.Setenv("XDG_DATA_HOME", xdgDir)

	got := GetDataDir()
	want := filepath.Join(xdgDir, "yougen")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetDBAndKVPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("YOUGEN_DIR", tmpDir)

	if got, want := GetDBPath(), filepath.Join(tmpDir, "yougen.db"); got != want {
		t.Fatalf("GetDBPath expected %q, got %q", want, got)
	}

	if got, want := GetKVDir(), filepath.Join(tmpDir, "kv"); got != want {
		t.Fatalf("GetKVDir expected %q, got %q", want, got)
	}
}

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("YOUGEN_DIR", filepath.Join(tmp, "data"))
	t.Setenv("YOUGEN_CONFIG", filepath.Join(tmp, "absent.toml"))
	for _, key := range []string{"YOUGEN_MEDIUM", "YOUGEN_LOG_LEVEL", "YOUGEN_LOG_FORMAT", "YOUGEN_LISTEN", "YOUGEN_API_URL", "YOUGEN_API_TIMEOUT"} {
		t.Setenv(key, "")
	}
	return tmp
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tmp := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Medium != MediumSQLite || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DataDir != filepath.Join(tmp, "data") {
		t.Fatalf("expected data dir from YOUGEN_DIR, got %q", cfg.DataDir)
	}
	if cfg.APITimeout() != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.APITimeout())
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "config.toml")
	content := `
medium = "file"
log_level = "DEBUG"
api_url = "http://backend:8000/api/"
api_timeout_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YOUGEN_LOG_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Medium != MediumFile {
		t.Fatalf("expected medium from file, got %q", cfg.Medium)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected normalised log level, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected env override for log format, got %q", cfg.LogFormat)
	}
	if cfg.APIURL != "http://backend:8000/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIURL)
	}
	if cfg.APITimeoutSeconds != 5 {
		t.Fatalf("expected timeout from file, got %d", cfg.APITimeoutSeconds)
	}
	if cfg.KVDir() != filepath.Join(cfg.DataDir, "kv") {
		t.Fatalf("unexpected kv dir %q", cfg.KVDir())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(path, []byte("medum = \"file\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	tmp := isolate(t)
	if _, err := Load(filepath.Join(tmp, "missing.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "medium", mutate: func(c *Config) { c.Medium = "redis" }, want: "medium"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "trace" }, want: "log_level"},
		{name: "log format", mutate: func(c *Config) { c.LogFormat = "xml" }, want: "log_format"},
		{name: "api url", mutate: func(c *Config) { c.APIURL = "ftp://x" }, want: "api_url"},
		{name: "timeout", mutate: func(c *Config) { c.APITimeoutSeconds = 0 }, want: "api_timeout_seconds"},
		{name: "data dir", mutate: func(c *Config) { c.DataDir = "" }, want: "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadInvalidTimeoutEnv(t *testing.T) {
	isolate(t)
	t.Setenv("YOUGEN_API_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-numeric timeout")
	}
}
