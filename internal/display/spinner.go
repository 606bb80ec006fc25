package display

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CompletionInfo describes a finished dataset resolve.
type CompletionInfo struct {
	Dataset string
	Source  string
	Cached  bool
	Success bool
	Error   string
}

// SpinnerShouldShow returns true if the spinner should be displayed.
// The spinner is hidden for quiet mode, JSON output, or non-TTY (piped) output.
func SpinnerShouldShow(quiet, json, nonTTY bool) bool {
	return !quiet && !json && !nonTTY
}

// SpinnerRun shows a line per dataset while resolveFn runs. resolveFn must
// call onComplete once per dataset; SpinnerRun blocks until all are done.
func SpinnerRun(datasets []string, resolveFn func(onComplete func(CompletionInfo))) error {
	if len(datasets) == 0 {
		resolveFn(func(CompletionInfo) {})
		return nil
	}

	p := tea.NewProgram(newSpinnerModel(datasets))

	done := make(chan struct{})
	go func() {
		resolveFn(func(info CompletionInfo) {
			p.Send(spinnerCompletionMsg(info))
		})
		close(done)
	}()

	_, err := p.Run()
	<-done
	if err != nil {
		return fmt.Errorf("running spinner: %w", err)
	}
	return nil
}

type spinnerCompletionMsg CompletionInfo

type spinnerModel struct {
	spinner     spinner.Model
	datasets    []string
	inflight    []string
	completions map[string]CompletionInfo
	quitting    bool
}

var (
	spinnerCheckStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	spinnerErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	spinnerDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newSpinnerModel(datasets []string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return spinnerModel{
		spinner:     s,
		datasets:    slices.Clone(datasets),
		inflight:    slices.Clone(datasets),
		completions: make(map[string]CompletionInfo),
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerCompletionMsg:
		info := CompletionInfo(msg)
		i := slices.Index(m.inflight, info.Dataset)
		if i < 0 {
			return m, nil
		}
		m.completions[info.Dataset] = info
		m.inflight = slices.Delete(slices.Clone(m.inflight), i, i+1)
		if len(m.inflight) == 0 {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for i, name := range m.datasets {
		if i > 0 {
			b.WriteString("\n")
		}
		c, done := m.completions[name]
		switch {
		case !done:
			b.WriteString(m.spinner.View())
		case c.Success:
			b.WriteString(spinnerCheckStyle.Render("✓"))
		default:
			b.WriteString(spinnerErrStyle.Render("✗"))
		}
		b.WriteString(" ")
		b.WriteString(name)
		if done && c.Source != "" {
			b.WriteString(" ")
			b.WriteString(spinnerDimStyle.Render("(" + c.Source + ")"))
		}
	}
	return b.String()
}
