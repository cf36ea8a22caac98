package history

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
)

func TestView_Placeholders(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	assert.Contains(t, m.View(), "Press r")

	m.SetState(model.ClientState{HistoryLoaded: true, HistoryRevision: 1})
	assert.Contains(t, m.View(), monitor.HistoryPlaceholder)
}

func TestView_Entries(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetState(model.ClientState{
		HistoryLoaded:   true,
		History:         []model.LogEntry{{Text: "old run finished"}},
		HistoryRevision: 1,
	})
	view := m.View()
	assert.Contains(t, view, "old run finished")
	assert.Contains(t, view, "(1)")
}

func TestUpdate_Keys(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.Equal(t, RefreshMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.NotNil(t, cmd)
	assert.Equal(t, ClearMsg{}, cmd())
}
