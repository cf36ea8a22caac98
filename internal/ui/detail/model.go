// Package detail shows one journal run in full.
package detail

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/store"
	"github.com/nhle/mailnest/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DetailLoadedMsg carries the freshly read run.
type DetailLoadedMsg struct {
	Run *model.Run
	Err error
}

// Model is the run detail view component.
type Model struct {
	run      *model.Run
	err      error
	viewport viewport.Model
	store    store.Store
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(s store.Store, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Load shows run right away and re-reads it from the store, since a
// running entry may have finished since the list was loaded.
func (m *Model) Load(run model.Run) tea.Cmd {
	m.SetRun(&run)
	if m.store == nil {
		return nil
	}
	m.loading = true
	s, id := m.store, run.ID
	return func() tea.Msg {
		fresh, err := s.GetRun(context.Background(), id)
		return DetailLoadedMsg{Run: fresh, Err: err}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Run != nil {
			m.SetRun(msg.Run)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Refresh):
			if m.run != nil {
				return m, m.Load(*m.run)
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.run == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No run selected")
	}

	view := m.viewport.View()
	if m.err != nil {
		view = lipgloss.JoinVertical(lipgloss.Left,
			theme.ErrorTextStyle.Render("Could not refresh: "+m.err.Error()),
			view,
		)
	}
	return view
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.run == nil {
		return ""
	}

	run := m.run
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(run.Kind.Label()))

	statusBadge := theme.StatusStyle(run.State()).Render(theme.StatusIcon(run.State()) + " " + run.Status)
	sections = append(sections, statusBadge, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		sections = append(sections, fmt.Sprintf("%s %s",
			metaStyle.Render(fmt.Sprintf("%-10s", label+":")),
			valStyle.Render(value),
		))
	}

	meta("Run", run.ID)
	meta("Mailbox", run.Account)
	meta("Started", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		meta("Finished", run.FinishedAt.Local().Format("2006-01-02 15:04:05"))
		meta("Took", run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String())
	}
	if run.Status == model.RunStatusDone {
		if run.Kind == model.OperationDuplicates {
			meta("Found", fmt.Sprintf("%d duplicates", run.Duplicates))
		} else {
			meta("Processed", fmt.Sprintf("%d e-mails", run.Total))
		}
	}

	if run.Error != "" {
		sections = append(sections, "", theme.ErrorTextStyle.Render(run.Error))
	}

	if len(run.Categories) > 0 {
		sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
		separator := sepStyle.Render(strings.Repeat("─", min(max(m.width-4, 10), 80)))
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

		sections = append(sections, "", separator, "",
			headerStyle.Render(fmt.Sprintf("Categories (%d)", len(run.Categories))), "")

		names := make([]string, 0, len(run.Categories))
		for name := range run.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sections = append(sections, fmt.Sprintf("  %-24s %s",
				name, theme.MetricValueStyle.Render(fmt.Sprint(run.Categories[name]))))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetRun updates the run being displayed and re-renders the content.
func (m *Model) SetRun(run *model.Run) {
	m.run = run
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Loading reports whether a refresh is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.run != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
