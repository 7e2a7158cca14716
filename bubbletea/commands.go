package bubbletea

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/raster"
	"golang.org/x/sync/errgroup"
)

// thumbnailWorkers bounds concurrent image decodes.
const thumbnailWorkers = 4

// resultMsg carries the outcome of a capture or copy request. seq orders
// requests so that a slow earlier request cannot overwrite a later one.
type resultMsg struct {
	seq uint64
	op  pathifier.Operation
	res pathifier.Result
	err error
}

// listMsg carries a directory listing.
type listMsg struct {
	seq    uint64
	images []pathifier.StoredImage
	err    error
}

// thumbsMsg carries thumbnails decoded at size, keyed by thumbKey.
type thumbsMsg struct {
	size   int
	thumbs map[string]pathifier.Bitmap
	err    error
}

// changedMsg reports an out-of-band change to the store directory.
type changedMsg struct{}

// settingsSavedMsg reports the outcome of persisting settings.
type settingsSavedMsg struct {
	err error
}

func captureImage(ctx context.Context, svc pathifier.Service, seq uint64) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Capture(ctx)
		return resultMsg{seq: seq, op: pathifier.OpCapture, res: res, err: err}
	}
}

func copyPath(ctx context.Context, svc pathifier.Service, seq uint64, path string) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.CopyPath(ctx, path)
		return resultMsg{seq: seq, op: pathifier.OpCopy, res: res, err: err}
	}
}

func listImages(ctx context.Context, svc pathifier.Service, seq uint64) tea.Cmd {
	return func() tea.Msg {
		images, err := svc.List(ctx)
		return listMsg{seq: seq, images: images, err: err}
	}
}

// loadThumbnails decodes and scales images in parallel. Images that fail to
// load are left out of the result; the first failure is reported.
func loadThumbnails(images []pathifier.StoredImage, size int) tea.Cmd {
	if len(images) == 0 {
		return nil
	}
	return func() tea.Msg {
		var mu sync.Mutex
		thumbs := make(map[string]pathifier.Bitmap, len(images))

		var g errgroup.Group
		g.SetLimit(thumbnailWorkers)
		for _, img := range images {
			g.Go(func() error {
				b, err := raster.LoadFile(img.Path)
				if err != nil {
					return fmt.Errorf("load %s: %w", img.Name(), err)
				}
				thumb, err := raster.Thumbnail(b, size)
				if err != nil {
					return fmt.Errorf("scale %s: %w", img.Name(), err)
				}
				mu.Lock()
				thumbs[thumbKey(img)] = thumb
				mu.Unlock()
				return nil
			})
		}
		err := g.Wait()
		return thumbsMsg{size: size, thumbs: thumbs, err: err}
	}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// settingsSaver serializes settings writes. A write older than the last one
// started is dropped, so a slow save never replaces newer settings.
type settingsSaver struct {
	store pathifier.SettingsStore

	mu   sync.Mutex
	last uint64
}

func (s *settingsSaver) save(seq uint64, settings pathifier.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.last {
		return nil
	}
	s.last = seq
	return s.store.Save(settings)
}

func saveSettings(saver *settingsSaver, seq uint64, s pathifier.Settings) tea.Cmd {
	if saver == nil {
		return nil
	}
	return func() tea.Msg {
		return settingsSavedMsg{err: saver.save(seq, s)}
	}
}

// thumbKey identifies one version of a stored image.
func thumbKey(img pathifier.StoredImage) string {
	return fmt.Sprintf("%s@%d", img.Path, img.ModTime.UnixNano())
}
