package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() pathifier.Settings {
	return pathifier.Settings{
		SaveDirectory: "/data/images",
		MaxImages:     20,
		ThumbnailSize: 100,
		Theme:         pathifier.ThemeDark,
		ShowMacOSTip:  true,
	}
}

func TestSettingsFile_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()

		f := fs.NewSettingsFile(filepath.Join(t.TempDir(), "settings.json"), testDefaults())

		got, err := f.Load()
		require.NoError(t, err)
		assert.Equal(t, testDefaults(), got)
	})

	t.Run("partial file merges over defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"max_images": 5, "theme": "Light", "unknown": 1}`), 0o644))
		f := fs.NewSettingsFile(path, testDefaults())

		got, err := f.Load()
		require.NoError(t, err)
		want := testDefaults()
		want.MaxImages = 5
		want.Theme = pathifier.ThemeLight
		assert.Equal(t, want, got)
	})

	t.Run("malformed file yields defaults and an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"max_images": `), 0o644))
		f := fs.NewSettingsFile(path, testDefaults())

		got, err := f.Load()
		require.ErrorIs(t, err, pathifier.ErrInvalidSettings)
		assert.Equal(t, testDefaults(), got)
	})

	t.Run("out of range values yield defaults and an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"max_images": 0}`), 0o644))
		f := fs.NewSettingsFile(path, testDefaults())

		got, err := f.Load()
		require.ErrorIs(t, err, pathifier.ErrInvalidSettings)
		assert.Equal(t, testDefaults(), got)
	})
}

func TestSettingsFile_Save(t *testing.T) {
	t.Parallel()

	t.Run("round trips through load", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "settings.json")
		f := fs.NewSettingsFile(path, testDefaults())
		want := pathifier.Settings{
			SaveDirectory: "/elsewhere",
			MaxImages:     7,
			ThumbnailSize: 64,
			Theme:         pathifier.ThemeSystem,
			WSLMode:       true,
			ShowMacOSTip:  false,
		}

		require.NoError(t, f.Save(want))
		got, err := f.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"save_directory": "/elsewhere"`)
		assert.Contains(t, string(data), `"show_macos_tip": false`)
	})

	t.Run("rejects invalid settings without writing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.json")
		f := fs.NewSettingsFile(path, testDefaults())
		bad := testDefaults()
		bad.MaxImages = -1

		require.ErrorIs(t, f.Save(bad), pathifier.ErrInvalidSettings)
		assert.NoFileExists(t, path)
	})
}

func TestDefaultDirs(t *testing.T) {
	// Not parallel: modifies the process environment.

	t.Run("xdg variables take precedence", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		t.Setenv(fs.ConfigPathEnv, "")

		assert.Equal(t, filepath.Join("/xdg/config", "pathifier"), fs.DefaultConfigDir())
		assert.Equal(t, filepath.Join("/xdg/data", "pathifier"), fs.DefaultDataDir())
		assert.Equal(t, filepath.Join("/xdg/config", "pathifier", "settings.json"), fs.DefaultSettingsPath())
		assert.Equal(t, filepath.Join("/xdg/data", "pathifier", "history.jsonl"), fs.DefaultJournalPath())
		assert.Equal(t, filepath.Join("/xdg/data", "pathifier", "images"), fs.DefaultSettings().SaveDirectory)
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("XDG_DATA_HOME", "")

		assert.Equal(t, filepath.Join(home, ".config", "pathifier"), fs.DefaultConfigDir())
		assert.Equal(t, filepath.Join(home, ".local", "share", "pathifier"), fs.DefaultDataDir())
	})

	t.Run("environment overrides settings path", func(t *testing.T) {
		t.Setenv(fs.ConfigPathEnv, "/custom/settings.json")

		assert.Equal(t, "/custom/settings.json", fs.DefaultSettingsPath())
	})

	t.Run("defaults are valid", func(t *testing.T) {
		s := fs.DefaultSettings()

		require.NoError(t, s.Validate())
		assert.Equal(t, pathifier.DefaultMaxImages, s.MaxImages)
		assert.Equal(t, pathifier.ThemeDark, s.Theme)
		assert.True(t, s.ShowMacOSTip)
		assert.False(t, s.WSLMode)
	})
}
