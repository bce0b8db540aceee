// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lumen/internal/buildpipeline"
)

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	prog    progress.Model
	// rows - сначала стадии, затем модули, пришедшие из StageCompile.
	rows   []row
	index  map[string]int
	stages int
	width  int
	done   bool
	failed bool
}

type row struct {
	label  string
	status string
	module bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one row per
// pipeline stage plus one row per module compiled by clang. The model
// quits when events is closed.
func NewProgressModel(title string, stages []buildpipeline.Stage, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int, len(stages)),
		stages:  len(stages),
		width:   80,
	}
	for _, st := range stages {
		m.index[stageKey(st)] = len(m.rows)
		m.rows = append(m.rows, row{label: string(st), status: "pending"})
	}
	return m
}

func stageKey(st buildpipeline.Stage) string { return "stage:" + string(st) }

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
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
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.done && m.failed:
		header = "failed: " + header
	case m.done:
		header = "done: " + header
	default:
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-6, 20)
	for _, r := range m.rows {
		indent := "  "
		if r.module {
			indent = "    "
		}
		status := styleStatus(r.status).Render(fmt.Sprintf("%*s", statusWidth, r.status))
		fmt.Fprintf(&b, "%s%s %s\n", indent, status, truncate(r.label, nameWidth))
	}

	b.WriteString("\n")
	if m.done && !m.failed {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
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

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	key := stageKey(ev.Stage)
	if ev.Module != "" {
		key = "module:" + ev.Module
		if _, ok := m.index[key]; !ok {
			m.index[key] = len(m.rows)
			m.rows = append(m.rows, row{label: ev.Module, module: true})
		}
	}
	idx, ok := m.index[key]
	if !ok {
		return nil
	}
	m.rows[idx].status = statusLabel(ev.Status)
	if ev.Status == buildpipeline.StatusError {
		m.failed = true
	}
	return m.prog.SetPercent(m.percent())
}

// percent counts finished rows; module rows weigh as much as a stage in
// total so a large project does not dominate the bar.
func (m *progressModel) percent() float64 {
	var stagesDone, modules, modulesDone float64
	for _, r := range m.rows {
		finished := r.status == "done" || r.status == "error"
		switch {
		case r.module:
			modules++
			if finished {
				modulesDone++
			}
		case finished:
			stagesDone++
		}
	}
	total := float64(m.stages)
	if modules > 0 {
		total++
		stagesDone += modulesDone / modules
	}
	if total == 0 {
		return 0
	}
	return stagesDone / total
}

func statusLabel(status buildpipeline.Status) string {
	switch status {
	case buildpipeline.StatusQueued:
		return "queued"
	case buildpipeline.StatusWorking:
		return "working"
	case buildpipeline.StatusDone:
		return "done"
	case buildpipeline.StatusError:
		return "error"
	}
	return "pending"
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "working":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
