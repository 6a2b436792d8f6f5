// Package ui renders project loading progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"gmlsem/internal/project"
)

// LoadTotal is the sum of the increments of a full project load.
const LoadTotal = 94.0

const recentSteps = 6

type progressModel struct {
	title   string
	events  <-chan project.Progress
	spinner spinner.Model
	prog    progress.Model
	total   float64
	sum     float64
	recent  []string
	width   int
	done    bool
}

type eventMsg project.Progress
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders load progress.
// total is the sum the increments are expected to reach; the model quits
// when events is closed.
func NewProgressModel(title string, total float64, events <-chan project.Progress) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76
	if total <= 0 {
		total = LoadTotal
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   total,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(project.Progress(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func (m *progressModel) View() string {
	var b strings.Builder
	if m.done {
		b.WriteString(headerStyle.Render("done: " + m.title))
	} else {
		b.WriteString(headerStyle.Render(m.spinner.View() + " " + m.title))
	}
	b.WriteString("\n\n")
	for i, step := range m.recent {
		style := doneStyle
		if !m.done && i == len(m.recent)-1 {
			style = activeStyle
		}
		fmt.Fprintf(&b, "  %s\n", style.Render(truncate(step, m.width-4)))
	}
	b.WriteString("\n")
	bar := m.prog.View()
	if m.done {
		bar = m.prog.ViewAs(1)
	}
	b.WriteString(bar + "\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev project.Progress) tea.Cmd {
	m.sum += ev.Increment
	if ev.Message != "" {
		m.recent = append(m.recent, ev.Message)
		if len(m.recent) > recentSteps {
			m.recent = m.recent[len(m.recent)-recentSteps:]
		}
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	return min(m.sum/m.total, 1.0)
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
