package styles

import (
	"github.com/allbin/serial-monitor/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusConnectingStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	// Dim text for hints and secondary details
	HintStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	// Port path in status lines and tables
	PortStyle = lipgloss.NewStyle().
			Foreground(colors.Blue)

	// Echo of operator input in send mode
	SentStyle = lipgloss.NewStyle().
			Foreground(colors.Peach)
)

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusDisconnected
	StatusConnecting
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusConnecting:
		return StatusConnectingStyle
	default:
		return StatusDisconnectedStyle
	}
}

// StatusIcon returns the glyph printed in front of a status line
func StatusIcon(status StatusType) string {
	switch status {
	case StatusConnected:
		return "✓"
	case StatusConnecting:
		return "⚡"
	default:
		return "✗"
	}
}
