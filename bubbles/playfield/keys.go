package playfield

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghthor/shapesboom/blokfall"
)

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	HardDrop  key.Binding

	Help key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "move right"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "soft drop"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "rotate ↷"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "rotate ↶"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hard drop"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Input maps a key press to a game input, InputNone when unmapped.
func (k KeyMap) Input(msg tea.KeyMsg) blokfall.Input {
	switch {
	case key.Matches(msg, k.Left):
		return blokfall.MoveLeft
	case key.Matches(msg, k.Right):
		return blokfall.MoveRight
	case key.Matches(msg, k.SoftDrop):
		return blokfall.SoftDrop
	case key.Matches(msg, k.RotateCW):
		return blokfall.RotateCW
	case key.Matches(msg, k.RotateCCW):
		return blokfall.RotateCCW
	case key.Matches(msg, k.HardDrop):
		return blokfall.HardDrop
	}
	return blokfall.InputNone
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop},
		{k.RotateCW, k.RotateCCW, k.HardDrop},
		{k.Help, k.Quit},
	}
}
