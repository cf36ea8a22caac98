// Package invites renders the admin invite code table.
package invites

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/admin"
	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/theme"
)

// RefreshMsg asks the parent to reload the invite list.
type RefreshMsg struct{}

// GenerateMsg asks the parent to create a new invite code.
type GenerateMsg struct{}

// RevokeMsg asks the parent to revoke the selected invite.
type RevokeMsg struct {
	Invite model.Invite
}

// Model is the invite management view.
type Model struct {
	keys   *keys.KeyMap
	table  table.Model
	list   model.InviteList
	loaded bool
	last   string
	width  int
	height int
}

// New creates the invite view.
func New(keys *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(theme.ColorWhite).
		Background(theme.ColorBlue)
	t.SetStyles(styles)

	m := Model{keys: keys, table: t}
	m.SetSize(width, height)
	return m
}

// SetList replaces the rows.
func (m *Model) SetList(list model.InviteList) {
	m.list = list
	m.loaded = true

	rows := make([]table.Row, 0, len(list.Invites))
	for _, inv := range list.Invites {
		rows = append(rows, table.Row(admin.Row(inv)))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// SetGenerated shows the code created last.
func (m *Model) SetGenerated(code string) {
	m.last = code
}

// Selected returns the invite under the cursor.
func (m Model) Selected() (model.Invite, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.list.Invites) {
		return model.Invite{}, false
	}
	return m.list.Invites[i], true
}

// Update handles messages for the invite view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(k, m.keys.Generate):
			return m, func() tea.Msg { return GenerateMsg{} }
		case key.Matches(k, m.keys.Revoke):
			inv, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return RevokeMsg{Invite: inv} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the invite view.
func (m Model) View() string {
	title := theme.TitleStyle.Render("🎟️ Invite codes")

	if !m.loaded {
		body := theme.EmptyStyle.Render("Press r to load the invite codes.")
		return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	metric := func(n int, label string) string {
		return theme.MetricValueStyle.Render(fmt.Sprint(n)) + " " + theme.MetricLabelStyle.Render(label)
	}
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		metric(m.list.Total, "total"), "   ",
		metric(m.list.Available, "available"), "   ",
		metric(m.list.Used, "used"),
	)

	parts := []string{title, stats}
	if m.last != "" {
		parts = append(parts, theme.SeverityStyle(model.SeveritySuccess).Render("New code: "+m.last))
	}
	if len(m.list.Invites) == 0 {
		parts = append(parts, theme.EmptyStyle.Render("No invite codes yet. Press g to create one."))
	} else {
		parts = append(parts, m.table.View())
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height-5, 3))
}

// columns spreads the available width over the admin columns, giving the
// code and user columns more room.
func columns(width int) []table.Column {
	weights := []int{2, 3, 2, 2, 3, 2}
	total := 0
	for _, w := range weights {
		total += w
	}

	usable := max(width-4-2*len(weights), len(weights)*6)
	cols := make([]table.Column, len(admin.Columns))
	for i, title := range admin.Columns {
		cols[i] = table.Column{Title: title, Width: max(usable*weights[i]/total, 6)}
	}
	return cols
}
