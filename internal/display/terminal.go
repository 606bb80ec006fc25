package display

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

const (
	fallbackWidth = 80
	// Report tables never stretch past this many columns.
	maxTableWidth = 160
)

// Terminal describes the file command output is written to.
type Terminal struct {
	TTY   bool
	Width int
}

// DetectTerminal inspects f. Width is zero when f is not a terminal and falls
// back to 80 columns when the size cannot be read.
func DetectTerminal(f *os.File) Terminal {
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return Terminal{}
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		w = fallbackWidth
	}
	return Terminal{TTY: true, Width: w}
}

// TableWidth is the width passed to NewTable. Zero lets piped output keep the
// table's natural width.
func (t Terminal) TableWidth() int {
	if !t.TTY {
		return 0
	}
	return min(t.Width, maxTableWidth)
}
