// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/pathifier"
)

// Compile-time interface verification.
var _ pathifier.Theme = (*Theme)(nil)

// Theme implements pathifier.Theme with Lipgloss-compatible colors.
type Theme struct {
	name    pathifier.ThemeName
	palette pathifier.Palette
}

// Name returns the concrete theme name, never ThemeSystem.
func (t *Theme) Name() pathifier.ThemeName {
	return t.name
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() pathifier.Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		name: pathifier.ThemeDark,
		palette: pathifier.Palette{
			// Catppuccin Mocha
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",
			Muted:      "#6c7086",
			Accent:     "#89b4fa",
			Selection:  "#313244",
			Success:    "#a6e3a1",
			Warning:    "#f9e2af",
			Error:      "#f38ba8",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		name: pathifier.ThemeLight,
		palette: pathifier.Palette{
			// Catppuccin Latte
			Background: "#eff1f5",
			Foreground: "#4c4f69",
			Muted:      "#9ca0b0",
			Accent:     "#1e66f5",
			Selection:  "#e6e9ef",
			Success:    "#40a02b",
			Warning:    "#df8e1d",
			Error:      "#d20f39",
		},
	}
}

// ForName returns the theme for name. ThemeSystem picks light or dark from
// hasDarkBackground.
func ForName(name pathifier.ThemeName, hasDarkBackground bool) *Theme {
	switch name {
	case pathifier.ThemeLight:
		return LightTheme()
	case pathifier.ThemeDark:
		return DarkTheme()
	}
	if hasDarkBackground {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeFunc returns a theme lookup for the current terminal. The terminal
// background is queried once, before a program takes over the terminal.
func ThemeFunc() func(pathifier.ThemeName) pathifier.Theme {
	dark := lipgloss.HasDarkBackground()
	return func(name pathifier.ThemeName) pathifier.Theme {
		return ForName(name, dark)
	}
}
