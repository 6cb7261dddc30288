// Package theme holds the lipgloss styles used for sprout's terminal output.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/sproutcare/sprout/internal/activity"
)

// Color palette, soft and readable on dark and light terminals
var (
	Primary   = lipgloss.Color("#22A06B") // Leaf Green
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Blocks
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Saved = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Discarded = lipgloss.NewStyle().
			Foreground(Error)

	Historical = lipgloss.NewStyle().
			Foreground(TextDim)

	// Backup marks output produced by the fallback engine.
	Backup = lipgloss.NewStyle().
		Foreground(Accent).
		Italic(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// ForState returns the badge style for a lifecycle state.
func ForState(s activity.State) lipgloss.Style {
	switch s {
	case activity.StateSaved:
		return Saved
	case activity.StateDiscarded:
		return Discarded
	case activity.StateHistorical:
		return Historical
	default:
		return Label
	}
}
