package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ellipsis marks text removed by TruncateLeft.
const ellipsis = "…"

// TruncateLeft shortens s to at most width display columns by dropping runes
// from the start and prefixing an ellipsis. Paths keep their most specific
// components visible. Widths below one return an empty string.
func TruncateLeft(s string, width int) string {
	if width < 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}

	runes := []rune(s)
	col := lipgloss.Width(ellipsis)
	start := len(runes)
	for start > 0 {
		w := lipgloss.Width(string(runes[start-1]))
		if col+w > width {
			break
		}
		col += w
		start--
	}

	var sb strings.Builder
	sb.WriteString(ellipsis)
	sb.WriteString(string(runes[start:]))
	return sb.String()
}
