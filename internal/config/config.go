// Package config resolves yougen's on-disk locations and runtime settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "yougen"

// GetDataDir resolves the base directory for all yougen storage. YOUGEN_DIR
// wins, then the XDG data home, and finally ~/.local/share.
func GetDataDir() string {
	if explicit := os.Getenv("YOUGEN_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appName)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, appName)
}

// GetDBPath returns the path to the SQLite medium.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "yougen.db")
}

// GetKVDir returns the directory used by the file medium.
func GetKVDir() string {
	return filepath.Join(GetDataDir(), "kv")
}

// GetConfigPath returns the default location of config.toml.
func GetConfigPath() string {
	if explicit := os.Getenv("YOUGEN_CONFIG"); explicit != "" {
		return explicit
	}

	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}
