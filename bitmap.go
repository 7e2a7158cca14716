package pathifier

import (
	"fmt"
	"math"
)

// BytesPerPixel is the size of one RGBA pixel.
const BytesPerPixel = 4

// Bitmap is a decoded raster image with non-premultiplied 8-bit RGBA pixels.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte // Row-major RGBA, len == Width*Height*4
}

// NewBitmap returns a Bitmap over pix, failing with ErrInvalidPixelBuffer
// unless the buffer length matches the dimensions exactly.
func NewBitmap(width, height int, pix []byte) (Bitmap, error) {
	b := Bitmap{Width: width, Height: height, Pix: pix}
	if err := b.Validate(); err != nil {
		return Bitmap{}, err
	}
	return b, nil
}

// Validate checks the dimension and buffer length invariant.
func (b Bitmap) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidPixelBuffer, b.Width, b.Height)
	}
	if b.Width > math.MaxInt/BytesPerPixel/b.Height {
		return fmt.Errorf("%w: dimensions %dx%d overflow", ErrInvalidPixelBuffer, b.Width, b.Height)
	}
	if want := b.Width * b.Height * BytesPerPixel; len(b.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidPixelBuffer, b.Width, b.Height, want, len(b.Pix))
	}
	return nil
}

// At returns the RGBA components of the pixel at (x, y).
func (b Bitmap) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * BytesPerPixel
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}
