package display

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableOptions configures table rendering.
type TableOptions struct {
	Title   string
	NoColor bool
	// Width caps the rendered table. Zero leaves it unbounded.
	Width int
}

// NewTable renders a rounded lipgloss table.
func NewTable(headers []string, rows [][]string, opts TableOptions) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if opts.NoColor {
		headerStyle = lipgloss.NewStyle().Padding(0, 1)
		borderStyle = lipgloss.NewStyle()
	}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}
	for _, row := range rows {
		t.Row(row...)
	}

	rendered := t.String()
	if opts.Title == "" {
		return rendered
	}
	title := opts.Title
	if !opts.NoColor {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}
	return title + "\n" + rendered
}
