package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/pathifier"
)

const appName = "pathifier"

// ConfigPathEnv overrides the settings file location when set.
const ConfigPathEnv = "PATHIFIER_CONFIG"

// DefaultConfigDir returns the configuration directory for pathifier.
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config/pathifier,
// or system temp directory if home is unavailable.
func DefaultConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the data directory for pathifier.
// Uses XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/pathifier,
// or system temp directory if home is unavailable.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) string {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, homeRel, appName)
}

// DefaultSettingsPath returns the settings file path, honouring ConfigPathEnv.
func DefaultSettingsPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "settings.json")
}

// DefaultJournalPath returns the capture journal path.
func DefaultJournalPath() string {
	return filepath.Join(DefaultDataDir(), "history.jsonl")
}

// DefaultLogPath returns the log file used while the terminal shell runs.
func DefaultLogPath() string {
	return filepath.Join(DefaultConfigDir(), "pathifier.log")
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() pathifier.Settings {
	return pathifier.Settings{
		SaveDirectory: filepath.Join(DefaultDataDir(), "images"),
		MaxImages:     pathifier.DefaultMaxImages,
		ThumbnailSize: pathifier.DefaultThumbnailSize,
		Theme:         pathifier.ThemeDark,
		WSLMode:       false,
		ShowMacOSTip:  true,
	}
}
