// Package ui renders a live terminal progress bar for a directory-wide
// `movelint check` run, adapted from the teacher's internal/ui
// progressModel (same spinner+progress.Model+bubbletea event-loop
// shape), narrowed from tracking per-file pipeline stages to tracking
// one thing: how many of N files internal/driver.LintDirectory has
// finished linting so far.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tick reports that one more file finished linting, out of Total.
type Tick struct {
	Done  int
	Total int
}

type progressModel struct {
	title   string
	events  <-chan Tick
	spinner spinner.Model
	prog    progress.Model
	done    int
	total   int
	closed  bool
}

type tickMsg Tick
type doneMsg struct{}

// NewProgressModel returns a bubbletea model that renders a spinner and
// a fraction-complete bar fed by events, closing itself once events is
// drained and closed by the caller.
func NewProgressModel(title string, total int, events <-chan Tick) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 60

	return &progressModel{title: title, events: events, spinner: sp, prog: prog, total: total}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		t, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return tickMsg(t)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.done = msg.Done
		if msg.Total > 0 {
			m.total = msg.Total
		}
		if m.done >= m.total && m.total > 0 {
			return m, tea.Sequence(m.progressCmd(), tea.Quit)
		}
		return m, tea.Batch(m.progressCmd(), m.listen())
	case doneMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) progressCmd() tea.Cmd {
	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.done) / float64(m.total)
	}
	return m.prog.SetPercent(fraction)
}

func (m *progressModel) View() string {
	return fmt.Sprintf("%s %s %s (%d/%d)\n", m.spinner.View(), m.title, m.prog.View(), m.done, m.total)
}
