package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Inc        key.Binding
	Dec        key.Binding
	Occupied   key.Binding
	Prerelease key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Save       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "earlier"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "later"),
		),
		Inc: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "add"),
		),
		Dec: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "remove"),
		),
		Occupied: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "occupied"),
		),
		Prerelease: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prerelease"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev view"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// GridFooterBindings returns footer bindings for the allocation grid.
func GridFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Left, km.Right, km.Inc, km.Dec, km.Occupied, km.Prerelease, km.NextTab, km.Save, km.Quit}
}

// ViewFooterBindings returns footer bindings for the read-only views.
func ViewFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.NextTab, km.PrevTab, km.Save, km.Quit}
}
