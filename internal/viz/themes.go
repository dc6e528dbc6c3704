package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the viewer.
type Theme struct {
	Name   string
	Canvas lipgloss.Color
	Accent lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Warn   lipgloss.Color
	Border lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Canvas: lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Warn:   lipgloss.Color("#ff8800"),
		Border: lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Canvas: lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Warn:   lipgloss.Color("#ffff00"),
		Border: lipgloss.Color("#003300"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Canvas: lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#555555"),
		Warn:   lipgloss.Color("#ffaa00"),
		Border: lipgloss.Color("#333333"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Canvas: lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#335577"),
		Warn:   lipgloss.Color("#ffcc00"),
		Border: lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Canvas: lipgloss.Color("#feca57"),
		Accent: lipgloss.Color("#ff6b6b"),
		Label:  lipgloss.Color("#8b6b8c"),
		Value:  lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#5b4b5c"),
		Warn:   lipgloss.Color("#ffc048"),
		Border: lipgloss.Color("#ff9ff3"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
