// Package datasets builds the resolvers for each named dataset from config,
// mapping tier names in resolver.order to concrete sources.
package datasets

import (
	"context"
	"fmt"
	"sort"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/docstore"
	"github.com/mvps-vip/showcase/internal/fetch"
	"github.com/mvps-vip/showcase/internal/httpclient"
	"github.com/mvps-vip/showcase/internal/models"
	"github.com/mvps-vip/showcase/internal/source/api"
)

// Deps are the collaborators the resolvers are built from. Docs and Repo may
// be nil, in which case the document tier is reported as unavailable.
type Deps struct {
	Config   config.Config
	Cache    fetch.Cache
	HTTP     *httpclient.Client
	Docs     docstore.Fetcher
	Repo     docstore.Repository
	UseCache bool
	Observer fetch.Observer
}

func (d Deps) resolverConfig() fetch.Config {
	return fetch.Config{
		TierTimeout: d.Config.TierTimeout(),
		Coalesce:    d.Config.Resolver.Coalesce,
		UseCache:    d.UseCache,
		Observer:    d.Observer,
	}
}

func (d Deps) httpClient() *httpclient.Client {
	if d.HTTP != nil {
		return d.HTTP
	}
	return httpclient.New(d.Config.SourceTimeout())
}

func (d Deps) apiSource(tier string) *api.Source[models.Catalog] {
	var opts []httpclient.RequestOption
	if tok := d.Config.Source.APIToken; tok != "" {
		opts = append(opts, httpclient.WithBearer(tok))
	}
	return api.New[models.Catalog](tier, d.Config.Source.APIURL, d.httpClient(), opts...)
}

// Catalog builds the resolver for the whole catalog dataset.
func Catalog(d Deps) (*fetch.Resolver[models.Catalog], error) {
	var sources []fetch.Source[models.Catalog]
	for _, tier := range d.Config.Resolver.Order {
		switch tier {
		case config.TierAPI:
			sources = append(sources, d.apiSource(tier))
		case config.TierDocument:
			var reader docstore.CatalogReader
			if d.Repo != nil {
				reader = d.Repo
			}
			sources = append(sources, docstore.NewCatalogSource(reader))
		case config.TierMock:
			sources = append(sources, fetch.NewStaticSource(tier, models.MockCatalog()))
		default:
			return nil, fmt.Errorf("unknown tier %q", tier)
		}
	}
	return fetch.NewResolver(sources, d.Cache, d.resolverConfig()), nil
}

// Settings builds the resolver for the settings record alone. The REST tier
// serves the full catalog, so its settings are projected out of it.
func Settings(d Deps) (*fetch.Resolver[models.Settings], error) {
	var sources []fetch.Source[models.Settings]
	for _, tier := range d.Config.Resolver.Order {
		switch tier {
		case config.TierAPI:
			catalogAPI := d.apiSource(tier)
			var fn func(ctx context.Context) (models.Settings, error)
			if catalogAPI.IsAvailable() {
				fn = func(ctx context.Context) (models.Settings, error) {
					c, err := catalogAPI.Fetch(ctx)
					return c.Settings, err
				}
			}
			sources = append(sources, fetch.NewFuncSource(tier, fn))
		case config.TierDocument:
			switch {
			case d.Docs != nil:
				sources = append(sources, docstore.NewRecordSource[models.Settings](
					d.Docs, d.Config.Store.SettingsCollection, d.Config.Store.SettingsID))
			case d.Repo != nil:
				sources = append(sources, fetch.NewFuncSource(docstore.SourceName, d.Repo.GetSettings))
			default:
				sources = append(sources, docstore.NewRecordSource[models.Settings](nil, "", ""))
			}
		case config.TierMock:
			sources = append(sources, fetch.NewStaticSource(tier, models.MockCatalog().Settings))
		default:
			return nil, fmt.Errorf("unknown tier %q", tier)
		}
	}
	return fetch.NewResolver(sources, d.Cache, d.resolverConfig()), nil
}

// Names returns the dataset keys known to this build, sorted.
func Names(cfg config.Config) []string {
	names := []string{cfg.Catalog.Key, cfg.Catalog.SettingsKey}
	sort.Strings(names)
	return names
}

// Jobs returns a resolve job per requested dataset key. An empty names list
// means every dataset.
func Jobs(d Deps, names []string) (map[string]fetch.Job, error) {
	if len(names) == 0 {
		names = Names(d.Config)
	}
	jobs := make(map[string]fetch.Job, len(names))
	for _, name := range names {
		switch name {
		case d.Config.Catalog.Key:
			r, err := Catalog(d)
			if err != nil {
				return nil, err
			}
			jobs[name] = r.Job(name)
		case d.Config.Catalog.SettingsKey:
			r, err := Settings(d)
			if err != nil {
				return nil, err
			}
			jobs[name] = r.Job(name)
		default:
			return nil, fmt.Errorf("unknown dataset %q (known: %v)", name, Names(d.Config))
		}
	}
	return jobs, nil
}
