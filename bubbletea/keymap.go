package bubbletea

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the capture shell.
type KeyMap struct {
	Capture           key.Binding
	Copy              key.Binding
	Up                key.Binding
	Down              key.Binding
	ToggleWSL         key.Binding
	MoreImages        key.Binding
	FewerImages       key.Binding
	CycleTheme        key.Binding
	Refresh           key.Binding
	DismissTip        key.Binding
	DismissTipForever key.Binding
	Help              key.Binding
	Quit              key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Capture: key.NewBinding(
			key.WithKeys("v", "ctrl+v", "p"),
			key.WithHelp("v", "capture clipboard"),
		),
		Copy: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter", "copy path"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		ToggleWSL: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle WSL paths"),
		),
		MoreImages: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "keep more images"),
		),
		FewerImages: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "keep fewer images"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		DismissTip: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide tip"),
		),
		DismissTipForever: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "never show tip"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Capture, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Capture, k.Copy, k.Up, k.Down},
		{k.ToggleWSL, k.MoreImages, k.FewerImages, k.CycleTheme},
		{k.Refresh, k.DismissTip, k.DismissTipForever, k.Help, k.Quit},
	}
}
