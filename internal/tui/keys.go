package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the console.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
	Search    key.Binding
	Arch      key.Binding
	Version   key.Binding
	Clear     key.Binding
	Update    key.Binding
	UpdateOne key.Binding
	Refresh   key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Import    key.Binding
	Upload    key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
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
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Arch: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "arch filter"),
		),
		Version: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "version filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Update: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update selected"),
		),
		UpdateOne: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "update device"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Add: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add device"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit device"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete device"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import xlsx"),
		),
		Upload: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "upload package"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the help view (horizontal).
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Update, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.SelectAll, k.Search, k.Arch, k.Version, k.Clear},
		{k.Update, k.UpdateOne, k.Refresh, k.Upload, k.Import},
		{k.Add, k.Edit, k.Delete, k.Back, k.Quit},
	}
}
