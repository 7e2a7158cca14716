package pathifier

import (
	"fmt"
	"strings"
)

// Setting defaults shared by every platform.
const (
	DefaultMaxImages     = 20
	DefaultThumbnailSize = 100
)

// ThemeName selects the colour scheme of the presentation layer.
type ThemeName string

// Theme names.
const (
	ThemeSystem ThemeName = "system"
	ThemeLight  ThemeName = "light"
	ThemeDark   ThemeName = "dark"
)

// Valid reports whether t is a known theme name.
func (t ThemeName) Valid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// Next returns the theme that follows t when cycling through themes.
func (t ThemeName) Next() ThemeName {
	switch t {
	case ThemeSystem:
		return ThemeLight
	case ThemeLight:
		return ThemeDark
	default:
		return ThemeSystem
	}
}

// UnmarshalText accepts theme names case-insensitively, so files written with
// capitalised names ("Dark") still load.
func (t *ThemeName) UnmarshalText(text []byte) error {
	name := ThemeName(strings.ToLower(strings.TrimSpace(string(text))))
	if !name.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidSettings, string(text))
	}
	*t = name
	return nil
}

// Settings is the persisted user configuration.
type Settings struct {
	SaveDirectory string    `json:"save_directory"`
	MaxImages     int       `json:"max_images"`
	ThumbnailSize int       `json:"thumbnail_size"` // Pixels along the longer side
	Theme         ThemeName `json:"theme"`
	WSLMode       bool      `json:"wsl_mode"`       // Only honoured where Platform.WSLTranslation is set
	ShowMacOSTip  bool      `json:"show_macos_tip"` // Only honoured where Platform.PasteTip is set
}

// Validate checks that every field is in range.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.SaveDirectory) == "" {
		return fmt.Errorf("%w: save_directory is empty", ErrInvalidSettings)
	}
	if s.MaxImages < 1 {
		return fmt.Errorf("%w: max_images must be positive, got %d", ErrInvalidSettings, s.MaxImages)
	}
	if s.ThumbnailSize < 1 {
		return fmt.Errorf("%w: thumbnail_size must be positive, got %d", ErrInvalidSettings, s.ThumbnailSize)
	}
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidSettings, s.Theme)
	}
	return nil
}
