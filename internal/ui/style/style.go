// Package style provides shared UI styling primitives including colors for
// consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Console colors.
var (
	Green  = lipgloss.Color("2")
	Red    = lipgloss.Color("1")
	Yellow = lipgloss.Color("3")
	Gray   = lipgloss.Color("8")
)
