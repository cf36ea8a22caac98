// Package authform holds the login and registration forms.
package authform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/theme"
)

// LoginMsg is dispatched when the login form is submitted.
type LoginMsg struct {
	Input account.LoginInput
}

// RegisterMsg is dispatched when the registration form is submitted.
type RegisterMsg struct {
	Input account.RegisterInput
}

// CancelMsg is dispatched when the user leaves the form.
type CancelMsg struct{}

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	loginType       string
	username        string
	password        string
	inviteCode      string
	name            string
	email           string
	confirmPassword string
}

// Model is the Bubble Tea model for the authentication forms.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	err    string
	width  int
	height int
}

// New creates an authentication form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{loginType: model.LoginTypeCredentials},
		width:  width,
		height: height,
	}
}

// Mode returns the form currently shown.
func (m Model) Mode() Mode {
	return m.mode
}

// StartLogin shows the login form. Previously typed values are kept so a
// failed attempt can be corrected.
func (m *Model) StartLogin() tea.Cmd {
	m.mode = ModeLogin
	m.fb.password = ""
	m.form = m.buildLoginForm()
	return m.form.Init()
}

// StartRegister shows the registration form.
func (m *Model) StartRegister() tea.Cmd {
	m.mode = ModeRegister
	m.fb.password = ""
	m.fb.confirmPassword = ""
	m.form = m.buildRegisterForm()
	return m.form.Init()
}

// SetError shows msg above the form.
func (m *Model) SetError(msg string) {
	m.err = msg
}

// Reset clears every field and the error.
func (m *Model) Reset() {
	*m.fb = formBindings{loginType: model.LoginTypeCredentials}
	m.err = ""
	m.form = nil
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the active form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "🔐 Log in"
	if m.mode == ModeRegister {
		titleText = "📝 Create account"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n"
	if m.err != "" {
		content += theme.ErrorTextStyle.Render("⚠️ "+m.err) + "\n\n"
	}
	content += m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	if m.mode == ModeRegister {
		in := account.RegisterInput{
			Name:            fb.name,
			Email:           fb.email,
			Password:        fb.password,
			ConfirmPassword: fb.confirmPassword,
			InviteCode:      fb.inviteCode,
		}
		return func() tea.Msg { return RegisterMsg{Input: in} }
	}

	in := account.LoginInput{Type: fb.loginType}
	if fb.loginType == model.LoginTypeInvite {
		in.InviteCode = fb.inviteCode
	} else {
		in.Username = fb.username
		in.Password = fb.password
	}
	return func() tea.Msg { return LoginMsg{Input: in} }
}

func (m *Model) buildLoginForm() *huh.Form {
	isInvite := func() bool { return m.fb.loginType == model.LoginTypeInvite }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sign in with").
				Options(
					huh.NewOption("Username and password", model.LoginTypeCredentials),
					huh.NewOption("Invite code", model.LoginTypeInvite),
				).
				Value(&m.fb.loginType),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
		).WithHideFunc(isInvite),
		huh.NewGroup(
			huh.NewInput().
				Title("Invite code").
				Placeholder("ABCD1234").
				Value(&m.fb.inviteCode),
		).WithHideFunc(func() bool { return !isInvite() }),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.fb.name),
			huh.NewInput().
				Title("E-mail").
				Placeholder("you@example.com").
				Value(&m.fb.email),
			huh.NewInput().
				Title("Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirmPassword),
			huh.NewInput().
				Title("Invite code").
				Value(&m.fb.inviteCode),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 70 {
		w = 70
	}
	return w
}
