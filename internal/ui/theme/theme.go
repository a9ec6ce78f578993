package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nextitem/internal/selection"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Attempted = lipgloss.NewStyle().
			Foreground(TextDim).
			Strikethrough(true)
)

// Tiers
var (
	TierEasy = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	TierMedium = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	TierDifficult = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Tier returns the style for a category.
func Tier(c selection.Category) lipgloss.Style {
	switch c {
	case selection.CategoryEasy:
		return TierEasy
	case selection.CategoryMedium:
		return TierMedium
	case selection.CategoryDifficult:
		return TierDifficult
	}
	return Body
}
