package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding the game reacts to.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	Hold      key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var Keys = KeyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	SoftDrop:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "soft drop")),
	HardDrop:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
	RotateCW:  key.NewBinding(key.WithKeys("up", "x", "k"), key.WithHelp("↑/x", "rotate")),
	RotateCCW: key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "rotate back")),
	Hold:      key.NewBinding(key.WithKeys("c", "shift+left"), key.WithHelp("c", "hold")),
	Pause:     key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p/esc", "pause")),
	Restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// PlayHelp is the bindings listed next to the board.
func (k KeyMap) PlayHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.SoftDrop, k.HardDrop, k.RotateCW, k.RotateCCW, k.Hold, k.Pause, k.Restart}
}
