package raster

import (
	"fmt"
	"image"

	"github.com/fwojciec/pathifier"
	"golang.org/x/image/draw"
)

// ThumbnailSize returns the dimensions of a thumbnail whose longer side is
// maxDim. The shorter side is rounded half up and clamped to [1, maxDim].
func ThumbnailSize(width, height, maxDim int) (int, int) {
	if width >= height {
		return maxDim, scaleSide(height, width, maxDim)
	}
	return scaleSide(width, height, maxDim), maxDim
}

// scaleSide computes round(short*maxDim/long) in integer arithmetic.
func scaleSide(short, long, maxDim int) int {
	n := (2*short*maxDim + long) / (2 * long)
	if n < 1 {
		return 1
	}
	if n > maxDim {
		return maxDim
	}
	return n
}

// Thumbnail scales b so that its longer side equals maxDim, preserving the
// aspect ratio.
func Thumbnail(b pathifier.Bitmap, maxDim int) (pathifier.Bitmap, error) {
	if maxDim < 1 {
		return pathifier.Bitmap{}, fmt.Errorf("thumbnail dimension must be positive, got %d", maxDim)
	}
	if err := b.Validate(); err != nil {
		return pathifier.Bitmap{}, err
	}

	w, h := ThumbnailSize(b.Width, b.Height, maxDim)
	if w == b.Width && h == b.Height {
		pix := make([]byte, len(b.Pix))
		copy(pix, b.Pix)
		return pathifier.NewBitmap(w, h, pix)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := NRGBA(b)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return pathifier.NewBitmap(w, h, dst.Pix)
}
