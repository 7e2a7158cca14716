// Package fs implements storage on the local filesystem: the bounded image
// store, the settings file and the default directory layout.
package fs

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/raster"
	"github.com/rs/zerolog"
)

// Compile-time interface verification.
var _ pathifier.ImageStore = (*Store)(nil)

// Store keeps at most MaxImages captures in a single directory. The
// directory listing is the only source of truth; nothing is cached between
// calls, so files added or removed by hand are picked up immediately.
type Store struct {
	mu        sync.Mutex
	dir       string
	maxImages int
	logger    zerolog.Logger
	remove    func(name string) error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for eviction events.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// the first save.
func NewStore(dir string, maxImages int, opts ...StoreOption) (*Store, error) {
	s := &Store{logger: zerolog.Nop(), remove: os.Remove}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.UpdateSettings(dir, maxImages); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the absolute store directory.
func (s *Store) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// MaxImages returns the current capacity.
func (s *Store) MaxImages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxImages
}

// UpdateSettings replaces the directory and capacity for later calls.
// Existing files are neither moved nor evicted.
func (s *Store) UpdateSettings(dir string, maxImages int) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%w: store directory is empty", pathifier.ErrInvalidSettings)
	}
	if maxImages < 1 {
		return fmt.Errorf("%w: max images must be positive, got %d", pathifier.ErrInvalidSettings, maxImages)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %w", pathifier.ErrInvalidSettings, dir, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = abs
	s.maxImages = maxImages
	return nil
}

// Save writes b under the next sequence number, then evicts the oldest
// images beyond capacity. Eviction failures are logged and do not fail the
// save.
func (s *Store) Save(ctx context.Context, b pathifier.Bitmap) (pathifier.StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return pathifier.StoredImage{}, err
	}
	if err := b.Validate(); err != nil {
		return pathifier.StoredImage{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return pathifier.StoredImage{}, fmt.Errorf("%w: create %s: %w", pathifier.ErrPersistence, s.dir, err)
	}
	dir, err := filepath.EvalSymlinks(s.dir)
	if err != nil {
		return pathifier.StoredImage{}, fmt.Errorf("%w: resolve %s: %w", pathifier.ErrPersistence, s.dir, err)
	}
	n, err := s.nextNumber(dir)
	if err != nil {
		return pathifier.StoredImage{}, err
	}

	path := filepath.Join(dir, pathifier.ImageName(n))
	err = writeFileAtomic(path, ".img_*.tmp", 0o644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := raster.Encode(bw, b); err != nil {
			return err
		}
		return bw.Flush()
	})
	if err != nil {
		return pathifier.StoredImage{}, fmt.Errorf("%w: write %s: %w", pathifier.ErrPersistence, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return pathifier.StoredImage{}, fmt.Errorf("%w: stat %s: %w", pathifier.ErrPersistence, path, err)
	}
	img := pathifier.StoredImage{
		Path:    path,
		Number:  n,
		Ext:     pathifier.SavedImageExt,
		ModTime: info.ModTime(),
	}
	s.logger.Debug().Str("path", path).Int("number", n).Msg("image saved")

	if err := s.cleanup(); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("evicting old images")
	}
	return img, nil
}

// nextNumber returns one more than the highest sequence number in the
// directory. Every entry with a recognised name counts, whatever its type,
// so a new file never collides with an existing one.
func (s *Store) nextNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %w", pathifier.ErrPersistence, dir, err)
	}
	highest := 0
	for _, e := range entries {
		if n, _, ok := pathifier.ParseImageName(e.Name()); ok && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// List returns the stored images, most recently modified first.
func (s *Store) List(ctx context.Context) ([]pathifier.StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// list returns canonical paths: symlinks in the directory path are resolved
// so the paths handed to consumers match what the host reports.
func (s *Store) list() ([]pathifier.StoredImage, error) {
	dir, err := filepath.EvalSymlinks(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", pathifier.ErrPersistence, s.dir, err)
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", pathifier.ErrPersistence, dir, err)
	}

	var images []pathifier.StoredImage
	for _, e := range entries {
		n, ext, ok := pathifier.ParseImageName(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			// Removed between the scan and the stat.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		images = append(images, pathifier.StoredImage{
			Path:    path,
			Number:  n,
			Ext:     ext,
			ModTime: info.ModTime(),
		})
	}

	slices.SortFunc(images, func(a, b pathifier.StoredImage) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Number, a.Number); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return images, nil
}

// Cleanup deletes the oldest images until at most MaxImages remain.
// All deletion failures are joined into the returned error.
func (s *Store) Cleanup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanup()
}

func (s *Store) cleanup() error {
	images, err := s.list()
	if err != nil {
		return err
	}
	if len(images) <= s.maxImages {
		return nil
	}

	var errs []error
	for _, img := range images[s.maxImages:] {
		if err := s.remove(img.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%w: remove %s: %w", pathifier.ErrPersistence, img.Path, err))
			continue
		}
		s.logger.Debug().Str("path", img.Path).Msg("image evicted")
	}
	return errors.Join(errs...)
}
