// Package mock provides test doubles for pathifier interfaces.
package mock

import (
	"context"

	"github.com/fwojciec/pathifier"
)

// Compile-time interface verification.
var _ pathifier.Clipboard = (*Clipboard)(nil)

// Clipboard is a mock implementation of pathifier.Clipboard.
type Clipboard struct {
	ReadImageFn func(ctx context.Context) (pathifier.Bitmap, error)
	WriteTextFn func(ctx context.Context, text string) error
}

func (c *Clipboard) ReadImage(ctx context.Context) (pathifier.Bitmap, error) {
	return c.ReadImageFn(ctx)
}

func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	return c.WriteTextFn(ctx, text)
}
