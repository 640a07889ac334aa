package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
)

// palette holds the colors for one theme.
type palette struct {
	accent   color.Color
	border   color.Color
	pending  color.Color
	text     color.Color
	muted    color.Color
	inverted color.Color
	errorFg  color.Color
}

func paletteFor(theme string) palette {
	switch theme {
	case "light":
		return palette{
			accent:   lipgloss.Color("#5A56E0"),
			border:   lipgloss.Color("250"),
			pending:  lipgloss.Color("#B7791F"),
			text:     lipgloss.Color("235"),
			muted:    lipgloss.Color("245"),
			inverted: lipgloss.Color("255"),
			errorFg:  lipgloss.Color("160"),
		}
	case "dracula":
		return palette{
			accent:   lipgloss.Color("#BD93F9"),
			border:   lipgloss.Color("#6272A4"),
			pending:  lipgloss.Color("#F1FA8C"),
			text:     lipgloss.Color("#F8F8F2"),
			muted:    lipgloss.Color("#6272A4"),
			inverted: lipgloss.Color("#282A36"),
			errorFg:  lipgloss.Color("#FF5555"),
		}
	case "notty":
		return palette{
			accent:   lipgloss.NoColor{},
			border:   lipgloss.NoColor{},
			pending:  lipgloss.NoColor{},
			text:     lipgloss.NoColor{},
			muted:    lipgloss.NoColor{},
			inverted: lipgloss.NoColor{},
			errorFg:  lipgloss.NoColor{},
		}
	}
	return palette{
		accent:   lipgloss.Color("205"),
		border:   lipgloss.Color("63"),
		pending:  lipgloss.Color("214"),
		text:     lipgloss.Color("252"),
		muted:    lipgloss.Color("241"),
		inverted: lipgloss.Color("0"),
		errorFg:  lipgloss.Color("196"),
	}
}

// styles are derived from a palette once per theme.
type styles struct {
	title   lipgloss.Style
	pane    lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	pending lipgloss.Style
	muted   lipgloss.Style
	err     lipgloss.Style
	input   lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			MarginBottom(1),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		label:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		value:   lipgloss.NewStyle().Foreground(p.text),
		pending: lipgloss.NewStyle().Foreground(p.pending),
		muted:   lipgloss.NewStyle().Foreground(p.muted),
		err:     lipgloss.NewStyle().Foreground(p.errorFg),
		input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.accent),
	}
}
