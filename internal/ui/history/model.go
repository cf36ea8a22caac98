// Package history renders the persisted backend log.
package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/theme"
	uimonitor "github.com/nhle/mailnest/internal/ui/monitor"
)

// RefreshMsg asks the parent to reload the history from the backend.
type RefreshMsg struct{}

// ClearMsg asks the parent to clear the history after confirmation.
type ClearMsg struct{}

// Model is the history view.
type Model struct {
	keys     *keys.KeyMap
	viewport viewport.Model
	entries  []model.LogEntry
	loaded   bool
	lastRev  uint64
	width    int
	height   int
}

// New creates the history view.
func New(keys *keys.KeyMap, width, height int) Model {
	m := Model{
		keys:     keys,
		viewport: viewport.New(width, 1),
	}
	m.SetSize(width, height)
	return m
}

// SetState refreshes the view from the monitor state.
func (m *Model) SetState(st model.ClientState) {
	m.entries = st.History
	m.loaded = st.HistoryLoaded
	m.viewport.SetContent(m.render())
	if st.HistoryRevision != m.lastRev {
		m.lastRev = st.HistoryRevision
		m.viewport.GotoBottom()
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(k, m.keys.Clear):
			return m, func() tea.Msg { return ClearMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the history view.
func (m Model) View() string {
	title := theme.TitleStyle.Render(fmt.Sprintf("📜 Log history (%d)", len(m.entries)))
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View()))
}

func (m Model) render() string {
	if !m.loaded {
		return theme.EmptyStyle.Render("Press r to load the history.")
	}
	if len(m.entries) == 0 {
		return theme.EmptyStyle.Render(monitor.HistoryPlaceholder)
	}
	return uimonitor.RenderEntries(m.entries, m.viewport.Width)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-2, 10)
	m.viewport.Height = max(height-2, 3)
	m.viewport.SetContent(m.render())
}
