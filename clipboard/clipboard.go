// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	atotto "github.com/atotto/clipboard"
	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/raster"
	xclipboard "golang.design/x/clipboard"
)

// Ensure System implements the Clipboard interface.
var _ pathifier.Clipboard = (*System)(nil)

// Backend is the raw clipboard transport. ReadImage returns an encoded image
// payload (PNG on every host the OS backend supports) or nil when the
// clipboard holds no image.
type Backend interface {
	// Init prepares image reads. Text writes do not depend on it.
	Init() error
	ReadImage() []byte
	WriteText(text string) error
}

// System implements Clipboard on top of a Backend.
// Access is serialized; the OS clipboard is a process-global resource.
type System struct {
	backend Backend

	mu    sync.Mutex
	ready bool // Image backend initialised
}

// New returns a System clipboard using backend.
func New(backend Backend) *System {
	return &System{backend: backend}
}

// NewSystem returns a System clipboard backed by the OS clipboard.
func NewSystem() *System {
	return New(osBackend{})
}

// initImages prepares the backend for image reads. A failed attempt is
// retried on the next read. Callers hold s.mu.
func (s *System) initImages() error {
	if s.ready {
		return nil
	}
	if err := s.backend.Init(); err != nil {
		return fmt.Errorf("%w: %w", pathifier.ErrClipboardUnavailable, err)
	}
	s.ready = true
	return nil
}

// ReadImage returns the image currently on the clipboard.
func (s *System) ReadImage(ctx context.Context) (pathifier.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return pathifier.Bitmap{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initImages(); err != nil {
		return pathifier.Bitmap{}, err
	}
	data := s.backend.ReadImage()
	if len(data) == 0 {
		return pathifier.Bitmap{}, pathifier.ErrNoImage
	}
	b, err := raster.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return pathifier.Bitmap{}, fmt.Errorf("%w: %w", pathifier.ErrInvalidPixelBuffer, err)
	}
	return b, nil
}

// WriteText replaces the clipboard content with text. It does not require
// the image backend to be initialised.
func (s *System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.WriteText(text); err != nil {
		return fmt.Errorf("%w: write text: %w", pathifier.ErrClipboardUnavailable, err)
	}
	return nil
}

// osBackend reads images through golang.design/x/clipboard and writes text
// through atotto/clipboard. Text writes go through the platform copy tools so
// the content outlives this process on X11.
type osBackend struct{}

func (osBackend) Init() error {
	return xclipboard.Init()
}

func (osBackend) ReadImage() []byte {
	return xclipboard.Read(xclipboard.FmtImage)
}

func (osBackend) WriteText(text string) error {
	return atotto.WriteAll(text)
}
