package kvcache

import (
	"context"
	"fmt"

	"github.com/mvps-vip/showcase/internal/config"
)

// OpenStore builds the store named by cfg.Cache.Backend.
func OpenStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Cache.Backend {
	case config.BackendFile, "":
		return NewFileStore(config.DatasetsDir()), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.SQLitePath())
	case config.BackendRedis:
		return OpenRedis(ctx, RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.RedisPrefix,
		})
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Open builds the configured store and wraps it in a Cache.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Cache, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s cache: %w", cfg.Cache.Backend, err)
	}
	return New(store, opts...), nil
}
