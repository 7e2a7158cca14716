// Package raster decodes, encodes and scales bitmaps.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/fwojciec/pathifier"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned when an encoded payload is not PNG, JPEG or BMP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode validates a raw RGBA buffer and wraps it in a Bitmap.
func Decode(pix []byte, width, height int) (pathifier.Bitmap, error) {
	return pathifier.NewBitmap(width, height, pix)
}

// Encode writes b as PNG. Pixels round-trip exactly, including partial alpha.
func Encode(w io.Writer, b pathifier.Bitmap) error {
	if err := b.Validate(); err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, NRGBA(b))
}

// NRGBA returns an image.NRGBA sharing b's pixel buffer.
func NRGBA(b pathifier.Bitmap) *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * pathifier.BytesPerPixel,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage converts any image into a Bitmap with its origin at (0, 0).
func FromImage(img image.Image) (pathifier.Bitmap, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return pathifier.Bitmap{}, fmt.Errorf("%w: empty image", pathifier.ErrInvalidPixelBuffer)
	}

	// Fast path: tightly packed NRGBA needs no conversion.
	if n, ok := img.(*image.NRGBA); ok && n.Stride == w*pathifier.BytesPerPixel {
		start := n.PixOffset(bounds.Min.X, bounds.Min.Y)
		pix := make([]byte, w*h*pathifier.BytesPerPixel)
		copy(pix, n.Pix[start:])
		return pathifier.NewBitmap(w, h, pix)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return pathifier.NewBitmap(w, h, dst.Pix)
}

// DecodeImage decodes a PNG, JPEG or BMP payload. The container is identified
// from its magic bytes, not from any file name.
func DecodeImage(r io.Reader) (pathifier.Bitmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return pathifier.Bitmap{}, err
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return pathifier.Bitmap{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var img image.Image
	switch kind.Extension {
	case "png":
		img, err = png.Decode(bytes.NewReader(data))
	case "jpg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		return pathifier.Bitmap{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.Extension)
	}
	if err != nil {
		return pathifier.Bitmap{}, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	return FromImage(img)
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) (pathifier.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return pathifier.Bitmap{}, err
	}
	defer f.Close()
	return DecodeImage(f)
}
