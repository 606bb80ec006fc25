package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/display"
	"github.com/mvps-vip/showcase/internal/docstore"
	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog into the document store",
	Long:  "Upsert every movie and the settings record from a YAML catalog (or the embedded sample) into MongoDB.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		file, _ := cmd.Flags().GetString("file")
		prune, _ := cmd.Flags().GetBool("prune")

		cat, err := loadSeedCatalog(file)
		if err != nil {
			return err
		}

		rt, err := openRuntime(ctx, config.Get(), runtimeOptions{requireStore: true})
		if err != nil {
			return err
		}
		defer func() { _ = rt.Close(ctx) }()

		res, err := seedCatalog(ctx, rt.repo, cat, prune)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outJSON(res)
		}
		if !quiet {
			out("✓ Seeded %d movies", res.Movies)
			if res.Pruned > 0 {
				out(", pruned %d", res.Pruned)
			}
			outln()
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "YAML catalog to load (default: embedded sample)")
	seedCmd.Flags().Bool("prune", false, "Delete stored movies that are not in the file")
}

type seedResult struct {
	display.ActionResultJSON
	Movies int `json:"movies"`
	Pruned int `json:"pruned"`
}

func loadSeedCatalog(path string) (models.Catalog, error) {
	if path == "" {
		return models.MockCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("reading seed file: %w", err)
	}
	return models.ParseCatalogYAML(data)
}

// seedCatalog validates the whole catalog before writing anything.
func seedCatalog(ctx context.Context, repo docstore.Repository, cat models.Catalog, prune bool) (seedResult, error) {
	var errs []error
	ids := make(map[string]bool, len(cat.Movies))
	for i, m := range cat.Movies {
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("movie %d (%q): id is required: %w", i, m.Title, models.ErrInvalid))
		} else if ids[m.ID] {
			errs = append(errs, fmt.Errorf("movie %q: duplicate id: %w", m.ID, models.ErrInvalid))
		}
		ids[m.ID] = true
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("movie %q: %w", m.ID, err))
		}
	}
	if err := cat.Settings.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("settings: %w", err))
	}
	if id := cat.Settings.FeaturedMovieID; id != "" && !ids[id] {
		errs = append(errs, fmt.Errorf("settings: featured movie %q is not in the catalog: %w", id, models.ErrInvalid))
	}
	if err := errors.Join(errs...); err != nil {
		return seedResult{}, err
	}

	log := logging.FromContext(ctx)
	res := seedResult{}
	for _, m := range cat.Movies {
		if err := repo.UpsertMovie(ctx, m); err != nil {
			return res, fmt.Errorf("upserting movie %q: %w", m.ID, err)
		}
		log.Debug("seeded movie", "id", m.ID, "title", m.Title)
		res.Movies++
	}
	if err := repo.PutSettings(ctx, cat.Settings); err != nil {
		return res, fmt.Errorf("writing settings: %w", err)
	}

	if prune {
		existing, err := repo.ListMovies(ctx)
		if err != nil {
			return res, fmt.Errorf("listing movies: %w", err)
		}
		for _, m := range existing {
			if ids[m.ID] {
				continue
			}
			if err := repo.DeleteMovie(ctx, m.ID); err != nil {
				return res, fmt.Errorf("pruning movie %q: %w", m.ID, err)
			}
			res.Pruned++
		}
	}

	res.Success = true
	res.Message = fmt.Sprintf("seeded %d movies", res.Movies)
	return res, nil
}
