package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/coderefine/coderefine/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	paneFocusedStyle = paneStyle.
				BorderForeground(colorPurple)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorHighlight).
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBorder)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(4).
			Align(lipgloss.Right)

	markerStyle = lipgloss.NewStyle().Bold(true)

	logInfoStyle  = lipgloss.NewStyle().Foreground(colorDim)
	logWarnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	logErrorStyle = lipgloss.NewStyle().Foreground(colorRed)

	scoreGoodStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	scoreOkStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	scoreBadStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	helpBarStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// severityColor maps a severity to its display color.
func severityColor(s model.Severity) lipgloss.Color {
	switch s {
	case model.SeverityCritical:
		return colorRed
	case model.SeverityHigh:
		return colorOrange
	case model.SeverityMedium:
		return colorYellow
	default:
		return colorBlue
	}
}

// scoreStyle picks a style for a 0-100 score.
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return scoreGoodStyle
	case score >= 50:
		return scoreOkStyle
	default:
		return scoreBadStyle
	}
}
