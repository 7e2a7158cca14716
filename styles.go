package pathifier

// Palette defines the colours used by the presentation layer.
// Colors are hex strings in "#RRGGBB" format. Empty strings mean terminal default.
type Palette struct {
	Background string // Base background, also used to flatten transparent pixels
	Foreground string // Primary text
	Muted      string // Secondary text (status details, help)
	Accent     string // Titles, selection marker
	Selection  string // Background of the selected row
	Success    string // Successful request status
	Warning    string // Negative results (no image) and tips
	Error      string // Failed request status
}

// Theme provides the palette for rendering.
// Different implementations can provide light/dark variants.
type Theme interface {
	Palette() Palette
}
