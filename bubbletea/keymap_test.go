package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/pathifier/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDefaultKeyMap_HasExpectedBindings(t *testing.T) {
	t.Parallel()

	km := bubbletea.DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"v captures", runes("v"), km.Capture},
		{"p captures", runes("p"), km.Capture},
		{"ctrl+v captures", tea.KeyMsg{Type: tea.KeyCtrlV}, km.Capture},
		{"enter copies", tea.KeyMsg{Type: tea.KeyEnter}, km.Copy},
		{"c copies", runes("c"), km.Copy},
		{"k moves up", runes("k"), km.Up},
		{"arrow up moves up", tea.KeyMsg{Type: tea.KeyUp}, km.Up},
		{"j moves down", runes("j"), km.Down},
		{"arrow down moves down", tea.KeyMsg{Type: tea.KeyDown}, km.Down},
		{"w toggles WSL", runes("w"), km.ToggleWSL},
		{"+ keeps more", runes("+"), km.MoreImages},
		{"- keeps fewer", runes("-"), km.FewerImages},
		{"t cycles theme", runes("t"), km.CycleTheme},
		{"x hides tip", runes("x"), km.DismissTip},
		{"X hides tip forever", runes("X"), km.DismissTipForever},
		{"q quits", runes("q"), km.Quit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
	}

	for _, tt := range tests {
		assert.True(t, key.Matches(tt.msg, tt.binding), tt.name)
	}
}

func TestDefaultKeyMap_Help(t *testing.T) {
	t.Parallel()

	km := bubbletea.DefaultKeyMap()

	assert.NotEmpty(t, km.ShortHelp())
	var total int
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	assert.Equal(t, 13, total)
}
