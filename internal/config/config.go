package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Tier names accepted in resolver.order.
const (
	TierAPI      = "api"
	TierDocument = "document"
	TierMock     = "mock"
)

// Cache backends accepted in cache.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Media backends.
const (
	MediaFile   = "file"
	MediaGridFS = "gridfs"
)

type SourceConfig struct {
	APIURL   string  `toml:"api_url" json:"api_url"`
	APIToken string  `toml:"api_token,omitempty" json:"api_token,omitempty"`
	Timeout  float64 `toml:"timeout" json:"timeout"`
}

type StoreConfig struct {
	MongoURI           string  `toml:"mongo_uri" json:"mongo_uri"`
	Database           string  `toml:"database" json:"database"`
	MoviesCollection   string  `toml:"movies_collection" json:"movies_collection"`
	SettingsCollection string  `toml:"settings_collection" json:"settings_collection"`
	SettingsID         string  `toml:"settings_id" json:"settings_id"`
	ConnectTimeout     float64 `toml:"connect_timeout" json:"connect_timeout"`
}

type CacheConfig struct {
	Backend       string `toml:"backend" json:"backend"`
	SQLitePath    string `toml:"sqlite_path,omitempty" json:"sqlite_path,omitempty"`
	RedisAddr     string `toml:"redis_addr" json:"redis_addr"`
	RedisPassword string `toml:"redis_password,omitempty" json:"-"`
	RedisDB       int    `toml:"redis_db" json:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix" json:"redis_prefix"`
}

type ResolverConfig struct {
	Order         []string `toml:"order" json:"order"`
	Coalesce      bool     `toml:"coalesce" json:"coalesce"`
	TierTimeout   float64  `toml:"tier_timeout" json:"tier_timeout"`
	MaxConcurrent int      `toml:"max_concurrent" json:"max_concurrent"`
}

type CatalogConfig struct {
	Key             string  `toml:"key" json:"key"`
	SettingsKey     string  `toml:"settings_key" json:"settings_key"`
	RefreshInterval float64 `toml:"refresh_interval" json:"refresh_interval"`
	DebounceMillis  int     `toml:"debounce_ms" json:"debounce_ms"`
}

type ServerConfig struct {
	Listen       string   `toml:"listen" json:"listen"`
	AllowOrigins []string `toml:"allow_origins" json:"allow_origins"`
}

// MediaConfig controls where admin uploads are stored. PublicURL is the
// scheme and host prefixed to upload URLs; when empty the request's host is
// used.
type MediaConfig struct {
	Backend     string  `toml:"backend" json:"backend"`
	Dir         string  `toml:"dir,omitempty" json:"dir,omitempty"`
	Bucket      string  `toml:"bucket" json:"bucket"`
	PublicURL   string  `toml:"public_url" json:"public_url"`
	MaxUploadMB float64 `toml:"max_upload_mb" json:"max_upload_mb"`
}

type AdminConfig struct {
	Email        string  `toml:"email" json:"email"`
	PasswordHash string  `toml:"password_hash,omitempty" json:"-"`
	JWTSecret    string  `toml:"jwt_secret,omitempty" json:"-"`
	SessionHours float64 `toml:"session_hours" json:"session_hours"`
}

type Config struct {
	Source   SourceConfig   `toml:"source" json:"source"`
	Store    StoreConfig    `toml:"store" json:"store"`
	Cache    CacheConfig    `toml:"cache" json:"cache"`
	Resolver ResolverConfig `toml:"resolver" json:"resolver"`
	Catalog  CatalogConfig  `toml:"catalog" json:"catalog"`
	Server   ServerConfig   `toml:"server" json:"server"`
	Media    MediaConfig    `toml:"media" json:"media"`
	Admin    AdminConfig    `toml:"admin" json:"admin"`
}

func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Timeout: 30.0,
		},
		Store: StoreConfig{
			Database:           "showcase",
			MoviesCollection:   "movies",
			SettingsCollection: "settings",
			SettingsID:         "global",
			ConnectTimeout:     10.0,
		},
		Cache: CacheConfig{
			Backend:     BackendFile,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "showcase:",
		},
		Resolver: ResolverConfig{
			Order:         []string{TierAPI, TierDocument},
			Coalesce:      true,
			MaxConcurrent: 4,
		},
		Catalog: CatalogConfig{
			Key:             "catalog",
			SettingsKey:     "settings",
			RefreshInterval: 60.0,
			DebounceMillis:  500,
		},
		Server: ServerConfig{
			Listen:       "127.0.0.1:8080",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Media: MediaConfig{
			Backend:     MediaFile,
			Bucket:      "media",
			MaxUploadMB: 50,
		},
		Admin: AdminConfig{
			SessionHours: 12.0,
		},
	}
}

// Validate rejects tier orders and cache backends the resolver cannot build.
func (c Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for _, name := range c.Resolver.Order {
		switch name {
		case TierAPI, TierDocument, TierMock:
		default:
			errs = append(errs, fmt.Errorf("resolver.order: unknown tier %q", name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("resolver.order: tier %q listed twice", name))
		}
		seen[name] = true
	}
	switch c.Cache.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend))
	}
	switch c.Media.Backend {
	case MediaFile, MediaGridFS:
	default:
		errs = append(errs, fmt.Errorf("media.backend: unknown backend %q", c.Media.Backend))
	}
	return errors.Join(errs...)
}

func (c Config) SourceTimeout() time.Duration {
	return seconds(c.Source.Timeout)
}

func (c Config) TierTimeout() time.Duration {
	return seconds(c.Resolver.TierTimeout)
}

func (c Config) ConnectTimeout() time.Duration {
	return seconds(c.Store.ConnectTimeout)
}

func (c Config) RefreshInterval() time.Duration {
	return seconds(c.Catalog.RefreshInterval)
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.Catalog.DebounceMillis) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Admin.SessionHours * float64(time.Hour))
}

// SQLitePath returns the configured sqlite cache file or the default under
// the data dir.
func (c Config) SQLitePath() string {
	if c.Cache.SQLitePath != "" {
		return c.Cache.SQLitePath
	}
	return SQLiteCacheFile()
}

// MediaDir returns the configured upload directory or the default under the
// data dir.
func (c Config) MediaDir() string {
	if c.Media.Dir != "" {
		return c.Media.Dir
	}
	return MediaDir()
}

// MaxUploadBytes is the request body limit for uploads. Zero means no limit.
func (c Config) MaxUploadBytes() int64 {
	if c.Media.MaxUploadMB <= 0 {
		return 0
	}
	return int64(c.Media.MaxUploadMB * (1 << 20))
}

func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}

func (c Config) clone() Config {
	out := c
	out.Resolver.Order = append([]string(nil), c.Resolver.Order...)
	out.Server.AllowOrigins = append([]string(nil), c.Server.AllowOrigins...)
	return out
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

func Get() Config {
	configMu.RLock()
	if c := globalConfig; c != nil {
		configMu.RUnlock()
		return c.clone()
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()
	if globalConfig != nil {
		return globalConfig.clone()
	}
	c, _ := Load("")
	globalConfig = &c
	return c.clone()
}

// Init loads the config file into the global config and returns the load
// error, if any, so callers can warn about a malformed file.
func Init() (Config, error) {
	return Reload()
}

func Reload() (Config, error) {
	configMu.Lock()
	defer configMu.Unlock()
	c, err := Load("")
	globalConfig = &c
	return c.clone(), err
}

// SetGlobal replaces the global config without touching disk.
func SetGlobal(cfg Config) {
	set(cfg)
}

func set(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	c := cfg.clone()
	globalConfig = &c
}

func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigFile()
	}
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			defaults, _ := applyEnvOverrides(DefaultConfig())
			return defaults, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg, err := applyEnvOverrides(cfg)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// LoadDotEnv reads KEY=value pairs from path into the process environment.
// Variables already set are left alone, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

type envOverrides struct {
	APIURL            string `env:"SHOWCASE_API_URL"`
	APIToken          string `env:"SHOWCASE_API_TOKEN"`
	MongoURI          string `env:"SHOWCASE_MONGO_URI"`
	CacheBackend      string `env:"SHOWCASE_CACHE_BACKEND"`
	MediaBackend      string `env:"SHOWCASE_MEDIA_BACKEND"`
	MediaPublicURL    string `env:"SHOWCASE_MEDIA_PUBLIC_URL"`
	RedisAddr         string `env:"SHOWCASE_REDIS_ADDR"`
	ListenAddr        string `env:"SHOWCASE_LISTEN_ADDR"`
	ResolverOrder     string `env:"SHOWCASE_RESOLVER_ORDER"`
	JWTSecret         string `env:"SHOWCASE_JWT_SECRET"`
	AdminEmail        string `env:"SHOWCASE_ADMIN_EMAIL"`
	AdminPasswordHash string `env:"SHOWCASE_ADMIN_PASSWORD_HASH"`
}

func applyEnvOverrides(cfg Config) (Config, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	override(&cfg.Source.APIURL, o.APIURL)
	override(&cfg.Source.APIToken, o.APIToken)
	override(&cfg.Store.MongoURI, o.MongoURI)
	override(&cfg.Cache.Backend, o.CacheBackend)
	override(&cfg.Media.Backend, o.MediaBackend)
	override(&cfg.Media.PublicURL, o.MediaPublicURL)
	override(&cfg.Cache.RedisAddr, o.RedisAddr)
	override(&cfg.Server.Listen, o.ListenAddr)
	override(&cfg.Admin.JWTSecret, o.JWTSecret)
	override(&cfg.Admin.Email, o.AdminEmail)
	override(&cfg.Admin.PasswordHash, o.AdminPasswordHash)
	if o.ResolverOrder != "" {
		var order []string
		for _, p := range strings.Split(o.ResolverOrder, ",") {
			if p = strings.TrimSpace(p); p != "" {
				order = append(order, p)
			}
		}
		cfg.Resolver.Order = order
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
