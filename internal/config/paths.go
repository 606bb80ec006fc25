package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "showcase"

func ConfigDir() string {
	if v := os.Getenv("SHOWCASE_CONFIG_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

func CacheDir() string {
	if v := os.Getenv("SHOWCASE_CACHE_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.CacheHome, appName)
}

func DataDir() string {
	if v := os.Getenv("SHOWCASE_DATA_DIR"); v != "" {
		return v
	}
	return filepath.Join(xdg.DataHome, appName)
}

func ConfigFile() string      { return filepath.Join(ConfigDir(), "config.toml") }
func DatasetsDir() string     { return filepath.Join(CacheDir(), "datasets") }
func SQLiteCacheFile() string { return filepath.Join(DataDir(), "cache.db") }
func MediaDir() string        { return filepath.Join(DataDir(), "media") }
