package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/adminauth"
	"github.com/mvps-vip/showcase/internal/catalog"
	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/datasets"
	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/media"
	"github.com/mvps-vip/showcase/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)
		cfg := config.Get()
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Server.Listen = listen
		}

		rt, err := openRuntime(ctx, cfg, runtimeOptions{memoryFallback: true})
		if err != nil {
			return err
		}
		defer func() { _ = rt.Close(ctx) }()

		res, err := datasets.Catalog(rt.deps())
		if err != nil {
			return fmt.Errorf("building catalog resolver: %w", err)
		}
		store := catalog.New(res, rt.repo, catalog.Options{
			Key:      cfg.Catalog.Key,
			Debounce: cfg.Debounce(),
		})
		defer store.Close()

		if _, err := store.Ensure(ctx); err != nil {
			log.Warn("initial catalog load failed, serving 503 until a tier recovers", "err", err)
		} else {
			log.Info("catalog loaded", "source", store.Source(), "tiers", res.Sources())
		}
		go store.Watch(ctx, cfg.RefreshInterval())

		auth, err := adminauth.New(cfg.Admin, cfg.SessionTTL())
		switch {
		case errors.Is(err, adminauth.ErrDisabled):
			log.Warn("admin routes disabled", "reason", err)
			auth = nil
		case err != nil:
			return err
		}

		var opts []server.Option
		if m, err := openMedia(cfg, rt); err != nil {
			log.Warn("media uploads disabled", "err", err)
		} else {
			opts = append(opts, server.WithMedia(m, cfg.Media.PublicURL, cfg.MaxUploadBytes()))
			log.Info("media storage ready", "backend", cfg.Media.Backend)
		}

		return server.New(cfg.Server, store, auth, log, opts...).Start(ctx)
	},
}

func openMedia(cfg config.Config, rt *runtime) (media.Store, error) {
	if rt.docs != nil {
		return media.Open(cfg, rt.docs.DB())
	}
	return media.Open(cfg, nil)
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides server.listen)")
}
