// Package command is the ":" palette. It completes command names and
// lists the ones matching what has been typed so far.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Command is one palette entry.
type Command struct {
	Name string
	Desc string
}

// Commands is the palette vocabulary, in display order.
var Commands = []Command{
	{"organize", "organise the inbox with the mailbox form values"},
	{"duplicates", "scan the mailbox for duplicates"},
	{"history", "show the persisted logs"},
	{"clear", "delete the persisted logs"},
	{"invites", "show invite codes (admin)"},
	{"generate", "create an invite code (admin)"},
	{"runs", "show runs started from this machine"},
	{"login", "log in"},
	{"register", "create an account"},
	{"logout", "log out"},
	{"settings", "edit server and display settings"},
	{"quit", "leave mailnest"},
}

// Names returns the command names, for completion.
func Names() []string {
	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Name
	}
	return names
}

// Matching returns the commands whose name starts with prefix.
func Matching(prefix string) []Command {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []Command
	for _, c := range Commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names())
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Focus clears the input and gives it the cursor.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		cmd := strings.ToLower(strings.TrimSpace(m.input.Value()))
		m.input.Reset()
		if cmd == "" {
			return m, nil
		}
		return m, func() tea.Msg { return CommandMsg(cmd) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the palette with the matching commands below the input.
func (m Model) View() string {
	rows := []string{theme.TitleStyle.Render("Command Palette"), m.input.View(), ""}

	matches := Matching(m.input.Value())
	if len(matches) == 0 {
		rows = append(rows, theme.ErrorTextStyle.Render("no such command"))
	}
	for _, c := range matches {
		rows = append(rows, fmt.Sprintf("  %-12s %s", c.Name, theme.HelpStyle.Render(c.Desc)))
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}
