package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Tab     key.Binding
	Log     key.Binding
	Session key.Binding
	Add     key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Log:     key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter/l", "log")),
		Session: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "session")),
		Add:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new goal")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit goal")),
		Toggle:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle active")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete goal")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Log, m.keys.Help, m.keys.Quit}
}

// FullHelp implements help.KeyMap
func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Tab},
		{m.keys.Log, m.keys.Session, m.keys.Toggle},
		{m.keys.Add, m.keys.Edit, m.keys.Delete},
		{m.keys.Help, m.keys.Quit},
	}
}
