package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a colour palette for all screens.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Untyped    lipgloss.Color
	Typed      lipgloss.Color
}

const (
	accentColor    = lipgloss.Color("#e2b714")
	incorrectColor = lipgloss.Color("#FF0000")
	recordColor    = lipgloss.Color("#00FF9F")
)

var themes = []Theme{
	{Name: "Dark", Background: "#323437", Untyped: "#646669", Typed: "#ffffff"},
	{Name: "Light", Background: "#ffffff", Untyped: "#d5d5d5", Typed: "#000000"},
	{Name: "Cyberpunk", Background: "#0F0A1E", Untyped: "#E5E7EB", Typed: "#00F0FF"},
}

// ThemeNames lists the available palettes.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// LookupTheme finds a palette by case-insensitive name.
func LookupTheme(name string) (Theme, bool) {
	for _, t := range themes {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Theme{}, false
}

func themeIndex(name string) int {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return 0
}

type styles struct {
	background lipgloss.Color
	untyped    lipgloss.Style
	typed      lipgloss.Style
	incorrect  lipgloss.Style
	title      lipgloss.Style
	text       lipgloss.Style
	selected   lipgloss.Style
	record     lipgloss.Style
	muted      lipgloss.Style
}

func newStyles(t Theme) styles {
	base := lipgloss.NewStyle().Background(t.Background)
	return styles{
		background: t.Background,
		untyped:    base.Foreground(t.Untyped),
		typed:      base.Foreground(t.Typed),
		incorrect:  base.Foreground(incorrectColor),
		title:      base.Foreground(accentColor).Bold(true),
		text:       base.Foreground(accentColor),
		selected:   lipgloss.NewStyle().Foreground(t.Background).Background(accentColor).Bold(true).Padding(0, 1),
		record:     base.Foreground(recordColor).Bold(true),
		muted:      base.Foreground(t.Untyped),
	}
}
