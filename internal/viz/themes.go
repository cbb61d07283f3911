package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for one field mode.
type Theme struct {
	Name       string
	Primary    lipgloss.Color // box and title
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:       "default",
		Primary:    lipgloss.Color("#00ffff"), // Cyan
		Secondary:  lipgloss.Color("#1a0526"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#12051f"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemeBlackHole = Theme{
		Name:       "black_hole",
		Primary:    lipgloss.Color("#7f33ff"), // Violet
		Secondary:  lipgloss.Color("#ff9933"),
		Accent:     lipgloss.Color("#ff9933"), // Accretion ring
		Background: lipgloss.Color("#050508"),
		Text:       lipgloss.Color("#e0d8ff"),
		Muted:      lipgloss.Color("#4b4466"),
		Success:    lipgloss.Color("#9f7fff"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4757"),
	}

	ThemeMagnetic = Theme{
		Name:       "magnetic",
		Primary:    lipgloss.Color("#ff33ff"), // Magenta
		Secondary:  lipgloss.Color("#26082f"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#14051e"),
		Text:       lipgloss.Color("#fff5ff"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
	}

	ThemeCursor = Theme{
		Name:       "cursor",
		Primary:    lipgloss.Color("#00ff99"), // Green
		Secondary:  lipgloss.Color("#082029"),
		Accent:     lipgloss.Color("#00ccff"),
		Background: lipgloss.Color("#061a24"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeBlackHole,
		ThemeMagnetic,
		ThemeCursor,
	}
)

// ThemeForMode returns the theme for a scene mode, falling back to the
// default theme.
func ThemeForMode(mode string) Theme {
	for _, t := range Themes {
		if t.Name == mode {
			return t
		}
	}
	return ThemeDefault
}
