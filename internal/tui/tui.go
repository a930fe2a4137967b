// Package tui shows per-file purify progress in the terminal.
package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxBarWidth = 40
	nameWidth   = 28
)

var (
	nameStyle  = lipgloss.NewStyle().Width(nameWidth).Foreground(lipgloss.Color("252"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Status is one update for the file at Index.
type Status struct {
	Index    int
	Progress float64
	// Done marks the final status for the file; Text is shown beneath it.
	Done   bool
	Failed bool
	Text   string
}

type statusMsg Status

type closedMsg struct{}

type fileRow struct {
	name    string
	percent float64
	done    bool
	failed  bool
	text    string
}

// Model renders one progress bar per file. It quits when the status channel
// is closed or the user presses q / ctrl+c.
type Model struct {
	rows        []fileRow
	bar         progress.Model
	statuses    <-chan Status
	interrupted bool
	finished    bool
}

// NewModel creates a model for paths fed by statuses.
func NewModel(paths []string, statuses <-chan Status) Model {
	rows := make([]fileRow, len(paths))
	for i, p := range paths {
		rows[i] = fileRow{name: filepath.Base(p)}
	}
	return Model{
		rows:     rows,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		statuses: statuses,
	}
}

// Interrupted reports whether the user quit before every file finished.
func (m Model) Interrupted() bool { return m.interrupted }

func (m Model) Init() tea.Cmd {
	return waitForStatus(m.statuses)
}

func waitForStatus(ch <-chan Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return statusMsg(s)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - nameWidth - 4
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width < 10 {
			width = 10
		}
		m.bar.Width = width
	case statusMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			row := &m.rows[msg.Index]
			if msg.Progress > row.percent {
				row.percent = msg.Progress
			}
			if msg.Done {
				row.done = true
				row.failed = msg.Failed
				row.text = msg.Text
				if !msg.Failed {
					row.percent = 1
				}
			}
		}
		return m, waitForStatus(m.statuses)
	case closedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	for _, row := range m.rows {
		b.WriteString(nameStyle.Render(truncate(row.name, nameWidth-1)))
		b.WriteString(m.bar.ViewAs(row.percent))
		b.WriteByte('\n')
		if row.done && row.text != "" {
			style := okStyle
			if row.failed {
				style = errorStyle
			}
			for _, line := range strings.Split(row.text, "\n") {
				b.WriteString("  ")
				b.WriteString(style.Render(line))
				b.WriteByte('\n')
			}
		}
	}
	if !m.finished && !m.interrupted {
		b.WriteString(helpStyle.Render("q: quit"))
		b.WriteByte('\n')
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
