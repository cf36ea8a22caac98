// Package runlist shows the local journal of operations started from
// this client.
package runlist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/store"
	"github.com/nhle/mailnest/internal/theme"
)

const pageSize = 200

// RunsLoadedMsg is sent when runs have been loaded from the store.
type RunsLoadedMsg struct {
	Runs []model.Run
	Err  error
}

// SelectedRunMsg is sent when a user selects a run to view details.
type SelectedRunMsg struct {
	Run model.Run
}

// statusFilters and kindFilters are cycled by f and t. The empty value
// shows everything.
var (
	statusFilters = []string{"", model.RunStatusRunning, model.RunStatusDone, model.RunStatusFailed}
	kindFilters   = []model.OperationKind{"", model.OperationOrganize, model.OperationDuplicates}
)

// Model is the run journal list view.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	statusIndex int
	kindIndex   int
	loaded      bool
	err         error
	width       int
	height      int
}

// New creates a new run list. s may be nil when the journal could not be
// opened.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, RunDelegate{}, width, height-2)
	l.Title = "Runs"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial set of runs.
func (m Model) Init() tea.Cmd {
	return m.LoadRuns()
}

// Update handles messages for the run list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RunsLoadedMsg:
		m.loaded = true
		m.err = msg.Err
		items := make([]list.Item, len(msg.Runs))
		for i, run := range msg.Runs {
			items[i] = RunItem{Run: run}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(RunItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedRunMsg{Run: item.Run}
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadRuns()

	case key.Matches(msg, m.keys.FilterStatus):
		m.statusIndex = (m.statusIndex + 1) % len(statusFilters)
		return m, m.LoadRuns()

	case key.Matches(msg, m.keys.FilterKind):
		m.kindIndex = (m.kindIndex + 1) % len(kindFilters)
		return m, m.LoadRuns()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Filter returns the store query for the active filters.
func (m Model) Filter() store.RunFilter {
	f := store.RunFilter{Limit: pageSize}
	if s := statusFilters[m.statusIndex]; s != "" {
		f.Status = &s
	}
	if k := kindFilters[m.kindIndex]; k != "" {
		f.Kind = &k
	}
	return f
}

// LoadRuns returns a tea.Cmd that queries the store with the current filter.
func (m Model) LoadRuns() tea.Cmd {
	filter := m.Filter()
	s := m.store
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		runs, err := s.ListRuns(context.Background(), filter)
		return RunsLoadedMsg{Runs: runs, Err: err}
	}
}

// View renders the run list view.
func (m Model) View() string {
	if m.store == nil {
		return m.renderEmptyState("The run journal is not available.\nCheck store.path in the config file.")
	}
	if m.err != nil {
		return m.renderEmptyState("Could not read the run journal:\n" + m.err.Error())
	}
	if !m.loaded {
		return m.renderEmptyState("Loading runs...")
	}

	filters := theme.HelpStyle.Render(m.filterLabel())
	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, filters, m.renderEmptyState(m.emptyText()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, filters, m.list.View())
}

func (m Model) filterLabel() string {
	status, kind := "all", "all"
	if s := statusFilters[m.statusIndex]; s != "" {
		status = s
	}
	if k := kindFilters[m.kindIndex]; k != "" {
		kind = k.Label()
	}
	return "Status: " + status + "   Operation: " + kind
}

func (m Model) emptyText() string {
	if m.statusIndex != 0 || m.kindIndex != 0 {
		return "No matching runs.\nPress f or t to change the filters."
	}
	return "No runs recorded yet.\n\nStart one from the Monitor tab."
}

func (m Model) renderEmptyState(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-1).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
