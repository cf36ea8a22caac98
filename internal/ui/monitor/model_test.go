package monitor

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_EmptyLogPlaceholder(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	assert.Contains(t, m.View(), emptyLog)
	assert.Contains(t, m.View(), "no mailbox set")
}

func TestSetState_RendersProgressAndMetrics(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetState(model.ClientState{
		Status:   model.StatusDone,
		Progress: model.Progress{Fraction: 1, Label: "Finished"},
		Summary: model.Summary{
			Total:      42,
			Categories: map[string]int{"Work": 30, "News": 12},
			Valid:      true,
		},
		Live:     []model.LogEntry{{Text: "[10:00:00] Done", Severity: model.SeveritySuccess}},
		Revision: 1,
	})

	view := m.View()
	assert.Contains(t, view, "Finished  100%")
	assert.Contains(t, view, "42")
	assert.Contains(t, view, "organised")
	assert.Contains(t, view, "[10:00:00] Done")
	assert.NotContains(t, view, emptyLog)
}

func TestSetState_ScrollsToBottomOnNewRevision(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 12)

	var live []model.LogEntry
	for i := range 50 {
		live = append(live, model.LogEntry{Text: fmt.Sprintf("line %d", i)})
	}
	m.SetState(model.ClientState{Status: model.StatusRunning, Live: live, Revision: 1})
	assert.True(t, m.viewport.AtBottom())

	m.viewport.GotoTop()
	m.SetState(model.ClientState{Status: model.StatusRunning, Live: live, Revision: 1})
	assert.True(t, m.viewport.AtTop(), "same revision keeps the scroll position")

	m.SetState(model.ClientState{Status: model.StatusRunning, Live: append(live, model.LogEntry{Text: "tail"}), Revision: 2})
	assert.True(t, m.viewport.AtBottom())
}

func TestUpdate_StartKeys(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetCredentials(model.Credentials{Email: " me@gmail.com ", Password: "secret"})

	_, cmd := m.Update(runes("o"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(StartMsg)
	require.True(t, ok)
	assert.Equal(t, model.OperationOrganize, msg.Kind)
	assert.Equal(t, "me@gmail.com", msg.Credentials.Email)
	assert.True(t, msg.DeleteFromInbox)

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, model.OperationDuplicates, cmd().(StartMsg).Kind)
}

func TestUpdate_CredentialKeys(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetCredentials(model.Credentials{Email: "me@gmail.com", Password: "secret"})

	_, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, SaveCredsMsg{Credentials: model.Credentials{Email: "me@gmail.com", Password: "secret"}}, cmd())

	_, cmd = m.Update(runes("S"))
	require.NotNil(t, cmd)
	assert.Equal(t, ForgetCredsMsg{}, cmd())
}

func TestEditCredentials_EscClosesForm(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.EditCredentials()
	require.True(t, m.Editing())
	assert.Contains(t, m.View(), "App password")

	m.SetFormError("Please fill in the e-mail and the password!")
	assert.Contains(t, m.View(), "Please fill in")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.False(t, m.Editing())
}

func TestRenderEntries_Wraps(t *testing.T) {
	out := RenderEntries([]model.LogEntry{{Text: "alpha beta gamma delta"}}, 11)
	assert.Contains(t, out, "\n")
}
