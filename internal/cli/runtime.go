package cli

import (
	"context"
	"errors"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/datasets"
	"github.com/mvps-vip/showcase/internal/docstore"
	"github.com/mvps-vip/showcase/internal/kvcache"
	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/metrics"
	"github.com/mvps-vip/showcase/internal/models"
)

// runtime holds the connections a command resolves against.
type runtime struct {
	cfg   config.Config
	cache *kvcache.Cache
	docs  *docstore.Client
	repo  docstore.Repository
}

type runtimeOptions struct {
	// memoryFallback backs the document tier with the embedded mock catalog
	// when no MongoDB is reachable, so serve still accepts admin writes.
	memoryFallback bool
	// requireStore fails instead of warning when MongoDB is unreachable.
	requireStore bool
}

var errNoStore = errors.New("no document store configured (set store.mongo_uri or SHOWCASE_MONGO_URI)")

func openRuntime(ctx context.Context, cfg config.Config, opts runtimeOptions) (*runtime, error) {
	log := logging.FromContext(ctx)
	rt := &runtime{cfg: cfg}

	cache, err := kvcache.Open(ctx, cfg, kvcache.WithObserver(metrics.CacheObserver()))
	if err != nil {
		log.Warn("cache unavailable, using memory", "backend", cfg.Cache.Backend, "err", err)
		cache = kvcache.New(kvcache.NewMemoryStore(), kvcache.WithObserver(metrics.CacheObserver()))
	}
	rt.cache = cache

	if cfg.Store.MongoURI != "" {
		client, err := docstore.Connect(ctx, docstore.ConfigFrom(cfg))
		switch {
		case err == nil:
			rt.docs = client
			rt.repo = docstore.NewMongoRepository(client)
		case opts.requireStore:
			_ = rt.Close(ctx)
			return nil, err
		default:
			log.Warn("document store unavailable", "err", err)
		}
	} else if opts.requireStore {
		_ = rt.Close(ctx)
		return nil, errNoStore
	}

	if rt.repo == nil && opts.memoryFallback {
		log.Info("using in-memory catalog store")
		rt.repo = docstore.NewMemoryRepository(models.MockCatalog())
	}
	return rt, nil
}

func (rt *runtime) deps() datasets.Deps {
	d := datasets.Deps{
		Config:   rt.cfg,
		Cache:    rt.cache,
		Repo:     rt.repo,
		UseCache: !refresh,
		Observer: metrics.ResolveObserver(),
	}
	if rt.docs != nil {
		d.Docs = rt.docs
	}
	return d
}

func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.cache != nil {
		errs = append(errs, rt.cache.Close())
	}
	if rt.docs != nil {
		errs = append(errs, rt.docs.Close(context.WithoutCancel(ctx)))
	}
	return errors.Join(errs...)
}
