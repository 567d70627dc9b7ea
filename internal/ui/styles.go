// Package ui provides CLI output styling and rendering.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): primary text
// - Accent (soft teal): entry codes, tags, highlights
// - Muted (gray): secondary info, counts, datetimes

var (
	// Accent style for entry codes, tags, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EEAD4"))

	// Muted style for secondary info and counts
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

// ConfigureAccent overrides the accent color from configuration.
func ConfigureAccent(color string) {
	if color == "" {
		return
	}
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
