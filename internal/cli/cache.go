package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/display"
	"github.com/mvps-vip/showcase/internal/kvcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the dataset cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List cached datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()
		c, err := kvcache.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		entries, err := c.Entries(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			rows := make([]display.CacheEntryJSON, 0, len(entries))
			for _, e := range entries {
				row := display.CacheEntryJSON{Key: e.Key, Size: e.Size, Valid: e.Valid}
				if !e.UpdatedAt.IsZero() {
					row.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
				}
				rows = append(rows, row)
			}
			return outJSON(rows)
		}

		if quiet {
			for _, e := range entries {
				outln(e.Key)
			}
			return nil
		}

		if len(entries) == 0 {
			out("No cached datasets (%s backend)\n", cfg.Cache.Backend)
			return nil
		}
		outln(display.RenderCacheEntries(entries, time.Now(), tableOptions("Cache ("+cfg.Cache.Backend+")")))
		if cfg.Cache.Backend == config.BackendFile {
			out("\nCache directory: %s\n", config.DatasetsDir())
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [dataset...]",
	Short: "Delete cached datasets (all when none are named)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := kvcache.Open(ctx, config.Get())
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		var n int
		if len(args) == 0 {
			n, err = c.Clear(ctx)
		} else {
			for _, key := range args {
				if derr := c.Delete(ctx, key); derr != nil {
					err = derr
					break
				}
				n++
			}
		}
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}

		msg := fmt.Sprintf("Cleared %d cached dataset(s)", n)
		if jsonOutput {
			return outJSON(display.ActionResultJSON{Success: true, Message: msg, Count: n})
		}
		out("✓ %s\n", msg)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
