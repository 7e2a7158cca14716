// Package pathifier provides domain types for capturing clipboard images into
// a bounded on-disk store and handing their paths back through the clipboard.
package pathifier

import "context"

// Clipboard reads images from and writes text to the system clipboard.
type Clipboard interface {
	// ReadImage returns the image currently on the clipboard.
	// Returns ErrNoImage if the clipboard holds no image.
	ReadImage(ctx context.Context) (Bitmap, error)
	// WriteText replaces the clipboard text content.
	WriteText(ctx context.Context, text string) error
}

// ImageStore persists captured bitmaps in a bounded directory.
type ImageStore interface {
	// Save writes the bitmap under the next free sequence number and evicts
	// the oldest images beyond capacity.
	Save(ctx context.Context, b Bitmap) (StoredImage, error)
	// List returns the stored images, most recently modified first.
	List(ctx context.Context) ([]StoredImage, error)
	// UpdateSettings replaces the directory and capacity used by later calls.
	UpdateSettings(dir string, maxImages int) error
}

// SettingsStore loads and persists user settings.
type SettingsStore interface {
	Load() (Settings, error)
	Save(s Settings) error
}

// Journal records the outcome of capture and copy requests.
type Journal interface {
	Append(e JournalEntry) error
	Load() ([]JournalEntry, error)
}

// Result describes a successfully completed capture or copy request.
type Result struct {
	Image StoredImage // Zero for copy requests
	Path  string      // Resolved path written to the clipboard
}

// Service is the boundary the presentation layer drives.
type Service interface {
	// Capture stores the clipboard image and copies its resolved path.
	Capture(ctx context.Context) (Result, error)
	// CopyPath copies the resolved form of an existing path.
	CopyPath(ctx context.Context, path string) (Result, error)
	// List returns the stored images, most recently modified first.
	List(ctx context.Context) ([]StoredImage, error)
	// UpdateSettings applies new settings to subsequent requests.
	UpdateSettings(s Settings) error
	// Settings returns the settings currently in effect.
	Settings() Settings
}
