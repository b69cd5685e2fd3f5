package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the pricing view responds to.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	TierAll     key.Binding
	TierLow     key.Binding
	TierMid     key.Binding
	TierHigh    key.Binding
	NextTier    key.Binding
	ModeBoth    key.Binding
	ModeInput   key.Binding
	ModeOutput  key.Binding
	NextMode    key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		DeselectAll: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "deselect all")),
		TierAll:     key.NewBinding(key.WithKeys("1")),
		TierLow:     key.NewBinding(key.WithKeys("2")),
		TierMid:     key.NewBinding(key.WithKeys("3")),
		TierHigh:    key.NewBinding(key.WithKeys("4")),
		NextTier:    key.NewBinding(key.WithKeys("t"), key.WithHelp("1-4/t", "price range")),
		ModeBoth:    key.NewBinding(key.WithKeys("b")),
		ModeInput:   key.NewBinding(key.WithKeys("i")),
		ModeOutput:  key.NewBinding(key.WithKeys("o")),
		NextMode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("b/i/o/m", "display")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.SelectAll, k.DeselectAll, k.NextTier, k.NextMode, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
