package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/keep/pkg/core"
)

var swatches = map[core.Color]lipgloss.Color{
	core.ColorDefault: lipgloss.Color("#5f6368"),
	core.ColorYellow:  lipgloss.Color("#fbbc04"),
	core.ColorOrange:  lipgloss.Color("#fa903e"),
	core.ColorRed:     lipgloss.Color("#f28b82"),
	core.ColorPurple:  lipgloss.Color("#d7aefb"),
	core.ColorBlue:    lipgloss.Color("#aecbfa"),
	core.ColorTeal:    lipgloss.Color("#a7ffeb"),
	core.ColorGreen:   lipgloss.Color("#ccff90"),
	core.ColorBrown:   lipgloss.Color("#e6c9a8"),
	core.ColorGray:    lipgloss.Color("#e8eaed"),
	core.ColorPink:    lipgloss.Color("#fdcfe8"),
}

// Swatch maps any stored color, known or not, to a terminal color.
func Swatch(name string) lipgloss.Color {
	return swatches[core.ResolveColor(name)]
}

var (
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbc04"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa0a6"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9aa0a6")).MarginTop(1)
	activeTab    = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#202124")).Background(lipgloss.Color("#dadce0")).Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(cardWidth)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 2)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#81c995"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f28b82"))
)

const cardWidth = 28
