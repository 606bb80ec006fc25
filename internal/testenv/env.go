// Package testenv isolates tests from the developer's real showcase
// directories and environment.
package testenv

import "path/filepath"

// Dirs contains isolated directories for showcase config/data/cache in tests.
type Dirs struct {
	Base   string
	Config string
	Data   string
	Cache  string
}

// DirsUnder returns conventional test directories rooted at base.
func DirsUnder(base string) Dirs {
	return Dirs{
		Base:   base,
		Config: filepath.Join(base, "config"),
		Data:   filepath.Join(base, "data"),
		Cache:  filepath.Join(base, "cache"),
	}
}

// Apply sets SHOWCASE_*_DIR env vars to isolated test directories and
// blanks every override variable config.Load reads.
func Apply(setenv func(string, string), base string) Dirs {
	dirs := DirsUnder(base)
	setenv("SHOWCASE_CONFIG_DIR", dirs.Config)
	setenv("SHOWCASE_DATA_DIR", dirs.Data)
	setenv("SHOWCASE_CACHE_DIR", dirs.Cache)
	ClearOverrides(setenv)
	return dirs
}

// ApplySameDir points config/data/cache to the same directory.
// Useful in tests that expect ConfigDir() to exactly match a temp dir path.
func ApplySameDir(setenv func(string, string), dir string) {
	setenv("SHOWCASE_CONFIG_DIR", dir)
	setenv("SHOWCASE_DATA_DIR", dir)
	setenv("SHOWCASE_CACHE_DIR", dir)
	ClearOverrides(setenv)
}

// OverrideVars lists the environment variables that override config.toml.
var OverrideVars = []string{
	"SHOWCASE_API_URL",
	"SHOWCASE_API_TOKEN",
	"SHOWCASE_MONGO_URI",
	"SHOWCASE_CACHE_BACKEND",
	"SHOWCASE_MEDIA_BACKEND",
	"SHOWCASE_MEDIA_PUBLIC_URL",
	"SHOWCASE_REDIS_ADDR",
	"SHOWCASE_LISTEN_ADDR",
	"SHOWCASE_RESOLVER_ORDER",
	"SHOWCASE_JWT_SECRET",
	"SHOWCASE_ADMIN_EMAIL",
	"SHOWCASE_ADMIN_PASSWORD_HASH",
}

// ClearOverrides sets every override variable to the empty string.
func ClearOverrides(setenv func(string, string)) {
	for _, k := range OverrideVars {
		setenv(k, "")
	}
}
