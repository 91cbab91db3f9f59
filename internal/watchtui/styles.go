package watchtui

import (
	"github.com/charmbracelet/lipgloss"

	"swarmview/internal/theme"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(theme.ColorMauve).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(theme.ColorSubtext0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorSurface1).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(theme.ColorOverlay0).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(theme.ColorSurface0)

	agentNameStyle = lipgloss.NewStyle().
			Foreground(theme.ColorText).
			Bold(true)

	descStyle = lipgloss.NewStyle().
			Foreground(theme.ColorSubtext0)

	actionStyle = lipgloss.NewStyle().
			Foreground(theme.ColorYellow)

	feedTimeStyle = lipgloss.NewStyle().
			Foreground(theme.ColorOverlay0)

	feedTextStyle = lipgloss.NewStyle().
			Foreground(theme.ColorSubtext0)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.ColorMauve).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(theme.ColorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(theme.ColorOverlay0)
)
