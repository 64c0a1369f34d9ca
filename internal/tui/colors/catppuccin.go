package colors

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha accents used by the console and the port table
var (
	Overlay0 = lipgloss.Color("#6c7086") // Dim text, table borders
	Subtext0 = lipgloss.Color("#a6adc8") // Secondary text
	Text     = lipgloss.Color("#cdd6f4") // Main text

	Mauve  = lipgloss.Color("#cba6f7") // Headers
	Blue   = lipgloss.Color("#89b4fa") // Port names
	Sky    = lipgloss.Color("#89dceb") // Received traffic
	Green  = lipgloss.Color("#a6e3a1") // Connected
	Yellow = lipgloss.Color("#f9e2af") // Waiting, reconnecting
	Peach  = lipgloss.Color("#fab387") // Sent traffic
	Red    = lipgloss.Color("#f38ba8") // Errors
)
