// Package tui renders the live dashboard: per-platform compilation progress
// on top, the trailing log below, redrawn on every reduced event and on
// terminal resize.
package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lejimsft/haul/internal/dashboard"
	"github.com/lejimsft/haul/internal/events"
)

// eventMsg wraps a bus event as a bubbletea message.
type eventMsg struct{ ev events.Event }

// feedClosedMsg signals the event channel has closed.
type feedClosedMsg struct{}

// Model is the bubbletea model for the haul dashboard. All dashboard
// semantics live in dashboard.Reduce/Project; this model only owns terminal
// geometry and the widget shells.
type Model struct {
	events <-chan events.Event

	state dashboard.State
	width int

	bar     progress.Model
	theme   Theme
	project string
	done    bool
}

// New creates a dashboard Model consuming events from the given channel.
func New(eventCh <-chan events.Event, accentColor, projectName string) Model {
	bar := progress.New(progress.WithSolidFill(accentOrDefault(accentColor)))
	bar.ShowPercentage = false

	return Model{
		events:  eventCh,
		state:   dashboard.NewState(24),
		width:   80,
		bar:     bar,
		theme:   NewTheme(accentColor),
		project: projectName,
	}
}

// State returns the current dashboard state, mainly for tests.
func (m Model) State() dashboard.State { return m.state }

// Init returns the initial command: start listening for events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

// Update handles incoming messages and advances the dashboard state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.state.TerminalHeight = msg.Height
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case eventMsg:
		m.state = dashboard.Reduce(m.state, msg.ev)
		return m, waitForEvent(m.events)

	case feedClosedMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// barWidth sizes the progress bar to leave room for the platform label and
// percentage column.
func barWidth(terminalWidth int) int {
	w := terminalWidth - 24
	if w < 10 {
		w = 10
	}
	return w
}
