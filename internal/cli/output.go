package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mvps-vip/showcase/internal/display"
)

// outWriter is the writer used for all command output.
// Tests can replace this to capture output.
var outWriter io.Writer = os.Stdout

func out(format string, a ...any) {
	_, _ = fmt.Fprintf(outWriter, format, a...)
}

func outln(a ...any) {
	_, _ = fmt.Fprintln(outWriter, a...)
}

func outJSON(v any) error {
	return display.OutputJSON(outWriter, v)
}

func tableOptions(title string) display.TableOptions {
	return display.TableOptions{
		Title:   title,
		NoColor: noColor,
		Width:   display.DetectTerminal(os.Stdout).TableWidth(),
	}
}
