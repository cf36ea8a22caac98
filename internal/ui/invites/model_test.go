package invites

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
)

func sampleList() model.InviteList {
	return model.InviteList{
		Total:     2,
		Available: 1,
		Used:      1,
		Invites: []model.Invite{
			{Code: "ABCD1234", CreatedBy: "admin", CreatedAt: "2024-01-01"},
			{Code: "USED0001", CreatedBy: "admin", CreatedAt: "2024-01-02", Used: true, UsedBy: "bob", UsedAt: "2024-01-03"},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_NotLoaded(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 30)
	assert.Contains(t, m.View(), "Press r")
}

func TestView_EmptyList(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 30)
	m.SetList(model.InviteList{})
	assert.Contains(t, m.View(), "No invite codes yet")

	_, cmd := m.Update(keyMsg("x"))
	assert.Nil(t, cmd, "nothing to revoke")
}

func TestView_RowsAndStats(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 160, 30)
	m.SetList(sampleList())
	m.SetGenerated("NEWCODE1")

	view := m.View()
	assert.Contains(t, view, "ABCD1234")
	assert.Contains(t, view, "available")
	assert.Contains(t, view, "New code: NEWCODE1")
}

func TestUpdate_RevokeSelected(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 160, 30)
	m.SetList(sampleList())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	inv, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "USED0001", inv.Code)

	_, cmd := m.Update(keyMsg("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, RevokeMsg{Invite: inv}, cmd())
}

func TestUpdate_GenerateAndRefresh(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 30)

	_, cmd := m.Update(keyMsg("g"))
	require.NotNil(t, cmd)
	assert.Equal(t, GenerateMsg{}, cmd())

	_, cmd = m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, RefreshMsg{}, cmd())
}
