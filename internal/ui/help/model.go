// Package help renders the key bindings, the palette commands and the
// log colour legend.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/theme"
	"github.com/nhle/mailnest/internal/ui/command"
)

// Model is the help view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Update is a no-op; the root model closes the view.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help view.
func (m Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		theme.TitleStyle.Render("Commands (press :)"),
		commandList(),
		"",
		theme.TitleStyle.Render("Log colours"),
		legend(),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

func commandList() string {
	lines := make([]string, len(command.Commands))
	for i, c := range command.Commands {
		lines[i] = fmt.Sprintf("%-12s %s", c.Name, theme.HelpStyle.Render(c.Desc))
	}
	return strings.Join(lines, "\n")
}

func legend() string {
	entries := []struct {
		sev  model.Severity
		text string
	}{
		{model.SeverityError, "❌ failures"},
		{model.SeveritySuccess, "✅ success"},
		{model.SeverityWarning, "⚠️ warnings"},
		{model.SeverityInfo, "everything else"},
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = theme.SeverityStyle(e.sev).Render(e.text)
	}
	return strings.Join(parts, "   ")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
