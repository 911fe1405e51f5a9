// Package style holds the brand colors and icons shared by the CLI output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Dusk   = lipgloss.Color("#6366F1")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Sky    = lipgloss.Color("#0EA5E9")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Plus    = "+"
	Minus   = "-"
	Tilde   = "~"
	Arrow   = "→"
	Dot     = "●"
)
