package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lejimsft/haul/internal/dashboard"
)

const defaultAccentColor = "#36C5F0"

var (
	colorGray   = lipgloss.Color("241")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("220")
	colorGreen  = lipgloss.Color("42")

	timestampStyle = lipgloss.NewStyle().Foreground(colorGray)

	debugStyle = lipgloss.NewStyle().Foreground(colorGray)
	infoStyle  = lipgloss.NewStyle()
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)
	doneStyle  = lipgloss.NewStyle().Foreground(colorGreen)

	methodStyle = lipgloss.NewStyle().Bold(true)
	statusOK    = lipgloss.NewStyle().Foreground(colorGreen)
	statusBad   = lipgloss.NewStyle().Foreground(colorRed)

	placeholderStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)

// accentOrDefault substitutes the default accent for an empty color string.
func accentOrDefault(accent string) string {
	if accent == "" {
		return defaultAccentColor
	}
	return accent
}

// Theme holds accent-color-derived styles for the dashboard.
type Theme struct {
	headerStyle   lipgloss.Style
	platformStyle lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#36C5F0").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	c := lipgloss.Color(accentOrDefault(accentColor))
	return Theme{
		headerStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		platformStyle: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
	}
}

// levelStyle maps a log level to its display style.
func levelStyle(l dashboard.Level) lipgloss.Style {
	switch l {
	case dashboard.LevelDebug:
		return debugStyle
	case dashboard.LevelWarn:
		return warnStyle
	case dashboard.LevelError:
		return errorStyle
	case dashboard.LevelDone:
		return doneStyle
	default:
		return infoStyle
	}
}

// renderTimestamp formats an entry's millisecond timestamp as [HH:MM:SS].
func renderTimestamp(ms int64) string {
	t := time.UnixMilli(ms)
	return timestampStyle.Render(fmt.Sprintf("[%s]", t.Format("15:04:05")))
}
