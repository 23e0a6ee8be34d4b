package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/lejimsft/haul/internal/dashboard"
)

// View renders the dashboard from the projected snapshot. The snapshot is
// the sole source of truth: everything visible comes out of Project.
func (m Model) View() string {
	snap := dashboard.Project(m.state, m.state.TerminalHeight)

	var b strings.Builder

	title := " haul"
	if m.project != "" {
		title = " haul — " + m.project
	}
	b.WriteString(m.theme.headerStyle.Width(m.width).Render(title))
	b.WriteString("\n")

	if snap.Placeholder {
		b.WriteString(placeholderStyle.Render("no compilation yet"))
		b.WriteString("\n")
	} else {
		for _, row := range snap.Compilations {
			b.WriteString(m.renderCompilationRow(row))
			b.WriteString("\n")
		}
	}

	b.WriteString(strings.Repeat("─", max(m.width, 1)))

	for _, e := range snap.Logs {
		b.WriteString("\n")
		b.WriteString(m.renderEntry(e))
	}

	return b.String()
}

// renderCompilationRow renders one platform line: label, progress bar, and
// a state column (percentage while running, done/stopped otherwise).
func (m Model) renderCompilationRow(row dashboard.CompilationRow) string {
	label := m.theme.platformStyle.Render(fmt.Sprintf("%-10s", row.Platform))
	bar := m.bar.ViewAs(row.Progress)

	var state string
	switch {
	case row.Running:
		state = fmt.Sprintf("%3.0f%%", row.Progress*100)
	case row.Progress >= 1:
		state = doneStyle.Render("done")
	default:
		state = errorStyle.Render("stopped")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", bar, " ", state)
}

// renderEntry renders one log line, truncated to the terminal width.
func (m Model) renderEntry(e dashboard.Entry) string {
	ts := renderTimestamp(e.Timestamp)

	var body string
	switch e.Kind {
	case dashboard.KindRequest:
		method := methodStyle.Render(strings.ToUpper(e.Method))
		status := statusOK
		if e.StatusCode >= 400 || e.StatusCode < 100 {
			status = statusBad
		}
		body = fmt.Sprintf("%s %s %s", method, e.URL, status.Render(fmt.Sprintf("%d", e.StatusCode)))
		if len(e.Extra) > 0 {
			body += " " + timestampStyle.Render(strings.Join(e.Extra, " "))
		}
	default:
		body = levelStyle(e.Level).Render(e.Text())
	}

	line := fmt.Sprintf("%s %s", ts, body)
	return truncate.StringWithTail(line, uint(max(m.width, 1)), "…")
}
