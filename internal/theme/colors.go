package theme

import "github.com/charmbracelet/lipgloss"

// Color palette - dark theme inspired by Catppuccin Mocha
var (
	ColorBase     = lipgloss.Color("#1e1e2e")
	ColorSurface0 = lipgloss.Color("#313244")
	ColorSurface1 = lipgloss.Color("#45475a")
	ColorOverlay0 = lipgloss.Color("#6c7086")
	ColorText     = lipgloss.Color("#cdd6f4")
	ColorSubtext0 = lipgloss.Color("#a6adc8")

	ColorRed      = lipgloss.Color("#f38ba8")
	ColorGreen    = lipgloss.Color("#a6e3a1")
	ColorYellow   = lipgloss.Color("#f9e2af")
	ColorBlue     = lipgloss.Color("#89b4fa")
	ColorMauve    = lipgloss.Color("#cba6f7")
	ColorTeal     = lipgloss.Color("#94e2d5")
	ColorPeach    = lipgloss.Color("#fab387")
	ColorLavender = lipgloss.Color("#b4befe")
)

// Status indicator styles
var (
	StatusActive    = lipgloss.NewStyle().Foreground(ColorBlue).SetString("● ")
	StatusWorking   = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true).SetString("◐ ")
	StatusCompleted = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).SetString("✓ ")
)

// Connectivity indicator styles
var (
	ConnUp   = lipgloss.NewStyle().Foreground(ColorGreen).SetString("● connected")
	ConnDown = lipgloss.NewStyle().Foreground(ColorRed).SetString("○ disconnected")
)

// AgentStatusIndicator returns a styled indicator for an agent status.
func AgentStatusIndicator(status string) string {
	switch status {
	case "working":
		return StatusWorking.String()
	case "completed":
		return StatusCompleted.String()
	default:
		return StatusActive.String()
	}
}

// ConnIndicator returns the connectivity badge for the header line.
func ConnIndicator(connected bool) string {
	if connected {
		return ConnUp.String()
	}
	return ConnDown.String()
}
