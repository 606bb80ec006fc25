package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/testenv"
)

// reloadConfig forces a config reload. Used by tests that modify
// SHOWCASE_CONFIG_DIR via t.Setenv before exercising commands.
func reloadConfig() {
	_, _ = config.Reload()
}

func newVerboseContext(logBuf *bytes.Buffer) context.Context {
	l := logging.NewLogger(logBuf)
	logging.Configure(l, logging.Flags{Verbose: true})
	return logging.WithLogger(context.Background(), l)
}

// captureOutput redirects command output into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	outWriter = &buf
	t.Cleanup(func() { outWriter = os.Stdout })
	return &buf
}

type flagState struct {
	json, quiet, noColor, refresh bool
}

// setFlags sets the persistent flag globals and restores them afterwards.
func setFlags(t *testing.T, f flagState) {
	t.Helper()
	prev := flagState{jsonOutput, quiet, noColor, refresh}
	jsonOutput, quiet, noColor, refresh = f.json, f.quiet, f.noColor, f.refresh
	t.Cleanup(func() {
		jsonOutput, quiet, noColor, refresh = prev.json, prev.quiet, prev.noColor, prev.refresh
	})
}

// isolate points every showcase directory at a temp dir and installs cfg.
func isolate(t *testing.T, cfg config.Config) string {
	t.Helper()
	dir := t.TempDir()
	testenv.ApplySameDir(t.Setenv, dir)
	config.Override(t, cfg)
	return dir
}

// mockConfig resolves from the embedded catalog into a file cache.
func mockConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Resolver.Order = []string{config.TierMock}
	return cfg
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetContext(context.Background())
	return cmd.RunE(cmd, args)
}
