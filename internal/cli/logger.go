package cli

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/mvps-vip/showcase/internal/logging"
)

// newConfiguredLogger writes to stderr so piped stdout stays clean.
func newConfiguredLogger() *log.Logger {
	l := logging.NewLogger(os.Stderr)
	logging.Configure(l, logging.Flags{
		Verbose: verbose,
		Quiet:   quiet,
		NoColor: noColor,
		JSON:    jsonOutput,
	})
	return l
}
