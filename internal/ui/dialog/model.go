// Package dialog renders modal notices and yes/no confirmations.
package dialog

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/theme"
)

// ClosedMsg is dispatched when a notice is dismissed.
type ClosedMsg struct{}

// ConfirmedMsg carries the answer to a confirmation. ID is the value
// passed to Ask.
type ConfirmedMsg struct {
	ID string
	OK bool
}

type mode int

const (
	modeHidden mode = iota
	modeNotice
	modeConfirm
)

// answer lives on the heap so huh's Value pointer survives model copies.
type answer struct {
	ok bool
}

// Model is the modal dialog. Only one dialog shows at a time.
type Model struct {
	mode   mode
	notice monitor.Notice
	form   *huh.Form
	answer *answer
	id     string
	width  int
	height int
}

// New creates a hidden dialog.
func New(width, height int) Model {
	return Model{answer: &answer{}, width: width, height: height}
}

// Active reports whether a dialog is showing.
func (m Model) Active() bool {
	return m.mode != modeHidden
}

// ShowNotice displays n until the user dismisses it. Empty notices are
// ignored.
func (m *Model) ShowNotice(n monitor.Notice) {
	if n.Empty() {
		return
	}
	m.mode = modeNotice
	m.notice = n
}

// Ask shows a yes/no question. The answer arrives as ConfirmedMsg.
func (m *Model) Ask(id, prompt string) tea.Cmd {
	m.mode = modeConfirm
	m.id = id
	m.answer.ok = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("Cancel").
				Value(&m.answer.ok),
		),
	).WithWidth(m.dialogWidth()).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages while a dialog is showing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeNotice:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter", "esc", " ":
				m.mode = modeHidden
				m.notice = monitor.Notice{}
				return m, func() tea.Msg { return ClosedMsg{} }
			}
		}
		return m, nil

	case modeConfirm:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m.finishConfirm(false)
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.finishConfirm(m.answer.ok)
	case huh.StateAborted:
		return m.finishConfirm(false)
	}
	return m, cmd
}

func (m Model) finishConfirm(ok bool) (Model, tea.Cmd) {
	id := m.id
	m.mode = modeHidden
	m.form = nil
	m.id = ""
	return m, func() tea.Msg { return ConfirmedMsg{ID: id, OK: ok} }
}

// View renders the dialog, or "" when hidden.
func (m Model) View() string {
	switch m.mode {
	case modeNotice:
		title := m.notice.Title
		if title == "" {
			title = "Notice"
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			theme.TitleStyle.Render(title),
			m.notice.Body,
			"",
			theme.HelpStyle.Render("enter close"),
		)
		return m.frame(body, m.notice.Kind == monitor.NoticeError)

	case modeConfirm:
		return m.frame(m.form.View(), false)
	}
	return ""
}

func (m Model) frame(body string, isError bool) string {
	box := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.NoticeBorder(isError)).
		Width(m.dialogWidth()).
		Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) dialogWidth() int {
	w := m.width - 10
	if w < 30 {
		w = 30
	}
	if w > 70 {
		w = 70
	}
	return w
}
