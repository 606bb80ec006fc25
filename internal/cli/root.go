// Package cli implements the showcase command line.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/display"
	"github.com/mvps-vip/showcase/internal/logging"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	jsonOutput bool
	noColor    bool
	verbose    bool
	quiet      bool
	refresh    bool
)

var rootCmd = &cobra.Command{
	Use:          "showcase",
	Short:        "Serve and inspect the movie showcase catalog",
	Long:         "showcase resolves the movie catalog from a REST service, a MongoDB document store or a local cache, and serves it over HTTP.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && quiet {
			verbose = false
		}
		if os.Getenv("NO_COLOR") != "" {
			noColor = true
		}
		l := newConfiguredLogger()
		cmd.SetContext(logging.WithLogger(cmd.Context(), l))

		if err := config.LoadDotEnv(""); err != nil {
			l.Warn("could not load .env", "err", err)
		}
		if _, err := config.Init(); err != nil {
			l.Warn("config file is malformed, using defaults", "err", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			out("showcase %s\n", version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.PersistentFlags().BoolVarP(&refresh, "refresh", "r", false, "Never fall back to the cache")
	rootCmd.Flags().Bool("version", false, "Show version and exit")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
// Commands access it via cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func isTerminal() bool {
	return display.DetectTerminal(os.Stdout).TTY
}
