// Package monitor renders the live operation view: the mailbox form,
// progress bar, summary metrics and the live log.
package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/theme"
)

// StartMsg asks the parent to start an operation with the current
// mailbox credentials.
type StartMsg struct {
	Kind            model.OperationKind
	Credentials     model.Credentials
	DeleteFromInbox bool
}

// SaveCredsMsg asks the parent to save the mailbox credentials on the
// backend.
type SaveCredsMsg struct {
	Credentials model.Credentials
}

// ForgetCredsMsg asks the parent to remove the saved credentials.
type ForgetCredsMsg struct{}

const emptyLog = "Logs will appear here once an operation starts."

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email           string
	password        string
	deleteFromInbox bool
}

// Model is the live operation view.
type Model struct {
	keys     *keys.KeyMap
	state    model.ClientState
	lastRev  uint64
	viewport viewport.Model
	bar      progress.Model
	form     *huh.Form
	fb       *formBindings
	editing  bool
	formErr  string
	width    int
	height   int
}

// New creates the monitor view.
func New(keys *keys.KeyMap, width, height int) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	m := Model{
		keys:     keys,
		viewport: viewport.New(width, 1),
		bar:      bar,
		fb:       &formBindings{deleteFromInbox: true},
		state:    model.ClientState{Status: model.StatusIdle},
	}
	m.SetSize(width, height)
	return m
}

// SetState replaces the rendered state. The log scrolls to its end
// whenever its revision changed.
func (m *Model) SetState(st model.ClientState) {
	m.state = st
	m.viewport.SetContent(m.renderLog())
	if st.Revision != m.lastRev {
		m.lastRev = st.Revision
		m.viewport.GotoBottom()
	}
}

// SetCredentials pre-fills the mailbox form, e.g. from saved credentials.
func (m *Model) SetCredentials(c model.Credentials) {
	m.fb.email = c.Email
	m.fb.password = c.Password
}

// Credentials returns the mailbox credentials currently entered.
func (m Model) Credentials() model.Credentials {
	return model.Credentials{
		Email:    strings.TrimSpace(m.fb.email),
		Password: m.fb.password,
	}
}

// DeleteFromInbox reports whether organised messages leave the inbox.
func (m Model) DeleteFromInbox() bool {
	return m.fb.deleteFromInbox
}

// SetFormError shows a validation message under the form.
func (m *Model) SetFormError(msg string) {
	m.formErr = msg
}

// Editing reports whether the mailbox form has focus.
func (m Model) Editing() bool {
	return m.editing
}

// EditCredentials opens the mailbox form.
func (m *Model) EditCredentials() tea.Cmd {
	m.editing = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("E-mail").
				Placeholder("you@gmail.com").
				Value(&m.fb.email),
			huh.NewInput().
				Title("App password").
				Placeholder("16-character app password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
			huh.NewConfirm().
				Title("Remove organised messages from the inbox?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.deleteFromInbox),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the monitor view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.editing {
		return m.updateForm(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Organize):
			return m, m.start(model.OperationOrganize)
		case key.Matches(k, m.keys.Duplicates):
			return m, m.start(model.OperationDuplicates)
		case key.Matches(k, m.keys.EditCreds):
			return m, m.EditCredentials()
		case key.Matches(k, m.keys.SaveCreds):
			creds := m.Credentials()
			return m, func() tea.Msg { return SaveCredsMsg{Credentials: creds} }
		case key.Matches(k, m.keys.ForgetCred):
			return m, func() tea.Msg { return ForgetCredsMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) start(kind model.OperationKind) tea.Cmd {
	msg := StartMsg{
		Kind:            kind,
		Credentials:     m.Credentials(),
		DeleteFromInbox: m.fb.deleteFromInbox,
	}
	return func() tea.Msg { return msg }
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
		m.editing = false
		m.form = nil
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted, huh.StateAborted:
		m.editing = false
		m.form = nil
		m.formErr = ""
		return m, nil
	}
	return m, cmd
}

// View renders the monitor view.
func (m Model) View() string {
	sections := []string{m.renderMailbox()}

	if m.state.Status != model.StatusIdle {
		sections = append(sections, m.renderProgress())
	}
	sections = append(sections, m.renderMetrics(), m.viewport.View())

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderMailbox() string {
	if m.editing && m.form != nil {
		out := m.form.View()
		if m.formErr != "" {
			out += "\n" + theme.ErrorTextStyle.Render(m.formErr)
		}
		return out
	}

	email := m.fb.email
	if email == "" {
		email = theme.EmptyStyle.Render("no mailbox set (press e)")
	}
	inbox := "remove from inbox"
	if !m.fb.deleteFromInbox {
		inbox = "keep in inbox"
	}

	line := fmt.Sprintf("📬 %s  %s", email, theme.HelpStyle.Render(inbox))
	if m.formErr != "" {
		line += "\n" + theme.ErrorTextStyle.Render(m.formErr)
	}
	return line + "\n"
}

func (m Model) renderProgress() string {
	pct := m.state.Progress.Percent()
	label := fmt.Sprintf("%s  %d%%", m.state.Progress.Label, pct)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.bar.ViewAs(m.state.Progress.Fraction),
		theme.HelpStyle.Render(label),
	)
}

func (m Model) renderMetrics() string {
	sum := m.state.Summary
	metric := func(value, label string) string {
		return theme.MetricValueStyle.Render(value) + " " + theme.MetricLabelStyle.Render(label)
	}

	total, cats, dups := "-", "-", "-"
	if sum.Valid {
		total = fmt.Sprint(sum.Total)
		cats = fmt.Sprint(sum.CategoryCount())
		dups = fmt.Sprint(sum.Duplicates)
	}

	status := theme.StatusStyle(m.state.Status).Render(
		theme.StatusIcon(m.state.Status) + " " + string(m.state.Status),
	)

	return strings.Join([]string{
		metric(total, "organised"),
		metric(cats, "categories"),
		metric(dups, "duplicates"),
		status,
	}, "   ") + "\n"
}

func (m Model) renderLog() string {
	if len(m.state.Live) == 0 {
		return theme.EmptyStyle.Render(emptyLog)
	}
	return RenderEntries(m.state.Live, m.viewport.Width)
}

// RenderEntries word-wraps and colors log entries, one per line.
func RenderEntries(entries []model.LogEntry, width int) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		text := e.Text
		if width > 0 {
			text = wordwrap.String(text, width)
		}
		lines = append(lines, theme.SeverityStyle(e.Severity).Render(text))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.bar.Width = max(width-4, 10)

	// Mailbox line, progress (2), metrics and padding.
	vpHeight := height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = max(width-2, 10)
	m.viewport.Height = vpHeight
	m.viewport.SetContent(m.renderLog())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
