package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/datasets"
	"github.com/mvps-vip/showcase/internal/display"
	"github.com/mvps-vip/showcase/internal/fetch"
	"github.com/mvps-vip/showcase/internal/logging"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [dataset...]",
	Short: "Resolve datasets through the tier chain and show where each came from",
	Long:  "Resolve every dataset (or the named ones) through the configured tiers, falling back to the cache unless --refresh is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), config.Get(), args)
	},
}

func runResolve(ctx context.Context, cfg config.Config, names []string) error {
	rt, err := openRuntime(ctx, cfg, runtimeOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	jobs, err := datasets.Jobs(rt.deps(), names)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(jobs))
	for k := range jobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := time.Now()
	var reports map[string]fetch.Report
	if display.SpinnerShouldShow(quiet, jsonOutput, !isTerminal()) {
		err := display.SpinnerRun(keys, func(onComplete func(display.CompletionInfo)) {
			reports = fetch.ResolveAll(ctx, jobs, cfg.Resolver.MaxConcurrent, func(r fetch.Report) {
				onComplete(reportToCompletion(r))
			})
		})
		if err != nil {
			return fmt.Errorf("spinner error: %w", err)
		}
	} else {
		reports = fetch.ResolveAll(ctx, jobs, cfg.Resolver.MaxConcurrent, nil)
	}
	elapsed := time.Since(start)

	log := logging.FromContext(ctx)
	failed := 0
	for _, k := range keys {
		r := reports[k]
		if !r.Found {
			failed++
			log.Debug("dataset unresolved", "dataset", k, "error", r.Error)
		}
	}
	log.Debug("resolve complete", "datasets", len(keys), "duration_ms", elapsed.Milliseconds())

	switch {
	case jsonOutput:
		if err := display.OutputResolveJSON(outWriter, reports, elapsed); err != nil {
			return err
		}
	case quiet:
		for _, r := range display.SortedReports(reports) {
			out("%s %s\n", r.Key, display.SourceLabel(r))
		}
	default:
		outln(display.RenderReports(reports, tableOptions("Datasets")))
		for _, r := range display.SortedReports(reports) {
			if !r.Found && r.Error != "" {
				out("\n%s: %s\n", r.Key, r.Error)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d datasets could not be resolved", failed, len(keys))
	}
	return nil
}

func reportToCompletion(r fetch.Report) display.CompletionInfo {
	return display.CompletionInfo{
		Dataset: r.Key,
		Source:  r.Source,
		Cached:  r.Cached,
		Success: r.Found,
		Error:   r.Error,
	}
}
