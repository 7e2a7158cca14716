package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/pathifier"
	"github.com/lucasb-eyer/go-colorful"
)

// upperHalfBlock paints the top pixel with the foreground and the bottom
// pixel with the background, so one cell holds two pixel rows.
const upperHalfBlock = "▀"

// renderPreview draws b as half-block cells. Transparent pixels are
// flattened onto background.
func renderPreview(b pathifier.Bitmap, background string, renderer *lipgloss.Renderer) string {
	if b.Validate() != nil {
		return ""
	}
	base, err := colorful.Hex(background)
	if err != nil {
		base = colorful.Color{}
	}

	var sb strings.Builder
	for y := 0; y < b.Height; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.Width; x++ {
			style := renderer.NewStyle().Foreground(lipgloss.Color(flatten(b, x, y, base)))
			if y+1 < b.Height {
				style = style.Background(lipgloss.Color(flatten(b, x, y+1, base)))
			}
			sb.WriteString(style.Render(upperHalfBlock))
		}
	}
	return sb.String()
}

// flatten composites the pixel at (x, y) over base and returns it as hex.
func flatten(b pathifier.Bitmap, x, y int, base colorful.Color) string {
	r, g, bl, a := b.At(x, y)
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(bl) / 255}
	return c.BlendRgb(base, 1-float64(a)/255).Clamped().Hex()
}
