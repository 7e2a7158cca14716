package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/pathifier"
)

// Compile-time interface verification.
var _ pathifier.SettingsStore = (*SettingsFile)(nil)

// SettingsFile persists settings as a JSON document.
type SettingsFile struct {
	path     string
	defaults pathifier.Settings
}

// NewSettingsFile returns a settings file at path. Fields missing from the
// file take their value from defaults.
func NewSettingsFile(path string, defaults pathifier.Settings) *SettingsFile {
	return &SettingsFile{path: path, defaults: defaults}
}

// Path returns the location of the settings file.
func (f *SettingsFile) Path() string {
	return f.path
}

// Load reads the settings file. A missing file yields the defaults. A file
// that cannot be parsed or holds out-of-range values also yields the
// defaults, together with an error describing the problem.
func (f *SettingsFile) Load() (pathifier.Settings, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return f.defaults, nil
	}
	if err != nil {
		return f.defaults, fmt.Errorf("read settings %s: %w", f.path, err)
	}

	s := f.defaults
	if err := json.Unmarshal(data, &s); err != nil {
		return f.defaults, fmt.Errorf("%w: parse %s: %w", pathifier.ErrInvalidSettings, f.path, err)
	}
	if err := s.Validate(); err != nil {
		return f.defaults, fmt.Errorf("settings %s: %w", f.path, err)
	}
	return s, nil
}

// Save validates s and writes it, replacing the previous file atomically.
func (f *SettingsFile) Save(s pathifier.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", pathifier.ErrPersistence, filepath.Dir(f.path), err)
	}
	err = writeFileAtomic(f.path, ".settings_*.tmp", 0o644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", pathifier.ErrPersistence, f.path, err)
	}
	return nil
}
