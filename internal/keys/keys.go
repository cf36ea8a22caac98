package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down     key.Binding
	Up       key.Binding
	NextView key.Binding
	Monitor  key.Binding
	History  key.Binding
	Invites  key.Binding
	Runs     key.Binding
	Select   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Settings
	Settings key.Binding

	// Operations
	Organize   key.Binding
	Duplicates key.Binding
	EditCreds  key.Binding
	SaveCreds  key.Binding
	ForgetCred key.Binding

	// History
	Refresh key.Binding
	Clear   key.Binding

	// Invites
	Generate key.Binding
	Revoke   key.Binding

	// Runs
	FilterStatus key.Binding
	FilterKind   key.Binding

	// Session
	Login  key.Binding
	Logout key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		Monitor: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "monitor"),
		),
		History: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "history"),
		),
		Invites: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "invites"),
		),
		Runs: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "runs"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		Organize: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "organise inbox"),
		),
		Duplicates: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "find duplicates"),
		),
		EditCreds: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit mailbox"),
		),
		SaveCreds: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save mailbox"),
		),
		ForgetCred: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "remove saved mailbox"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear logs"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate invite"),
		),
		Revoke: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "revoke invite"),
		),
		FilterStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter by status"),
		),
		FilterKind: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "filter by operation"),
		),
		Login: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log in"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NextView, k.Organize, k.Duplicates,
		k.Quit, k.Help, k.Command,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.Monitor, k.History, k.Invites, k.Runs, k.Select},
		{k.Organize, k.Duplicates, k.EditCreds, k.SaveCreds, k.ForgetCred},
		{k.Refresh, k.Clear, k.Generate, k.Revoke, k.FilterStatus, k.FilterKind},
		{k.Login, k.Logout, k.Settings, k.Command, k.Help, k.Back, k.Quit},
	}
}
