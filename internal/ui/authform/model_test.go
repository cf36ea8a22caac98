package authform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/model"
)

func TestView_EmptyWithoutForm(t *testing.T) {
	m := New(80, 24)
	assert.Empty(t, m.View())

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m2.View())
}

func TestStartLogin_ShowsErrorAndTitle(t *testing.T) {
	m := New(80, 24)
	m.StartLogin()
	m.SetError("Enter your username and password")

	view := m.View()
	assert.Contains(t, view, "Log in")
	assert.Contains(t, view, "Enter your username and password")
	assert.Equal(t, ModeLogin, m.Mode())
}

func TestStartRegister_Title(t *testing.T) {
	m := New(80, 24)
	m.StartRegister()
	assert.Equal(t, ModeRegister, m.Mode())
	assert.Contains(t, m.View(), "Create account")
}

func TestHandleSubmit_BuildsInputs(t *testing.T) {
	m := New(80, 24)
	m.fb.loginType = model.LoginTypeInvite
	m.fb.inviteCode = "abcd1234"
	m.fb.username = "ignored"

	msg := m.handleSubmit()()
	assert.Equal(t, LoginMsg{Input: account.LoginInput{Type: model.LoginTypeInvite, InviteCode: "abcd1234"}}, msg)

	m.mode = ModeRegister
	m.fb.name = "Ana"
	m.fb.email = "ana@example.com"
	m.fb.password = "secret1"
	m.fb.confirmPassword = "secret1"

	reg, ok := m.handleSubmit()().(RegisterMsg)
	require.True(t, ok)
	assert.Equal(t, "Ana", reg.Input.Name)
	assert.Equal(t, "secret1", reg.Input.ConfirmPassword)
	assert.Equal(t, "abcd1234", reg.Input.InviteCode)
}

func TestUpdate_AbortCancels(t *testing.T) {
	m := New(80, 24)
	m.StartLogin()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestReset(t *testing.T) {
	m := New(80, 24)
	m.fb.username = "bob"
	m.SetError("boom")
	m.Reset()
	assert.Empty(t, m.fb.username)
	assert.Equal(t, model.LoginTypeCredentials, m.fb.loginType)
	assert.Empty(t, m.err)
}
