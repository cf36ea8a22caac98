package detail

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/testutil"
)

func TestLoad_RefreshesFromStore(t *testing.T) {
	s := testutil.NewTestStore(t)

	stale := testutil.RecordRun(t, s, model.Run{Kind: model.OperationOrganize, Account: "me@gmail.com"}, nil)
	require.NoError(t, s.FinishRun(context.Background(), stale.ID, model.RunResult{
		Status:     model.RunStatusDone,
		Total:      7,
		Categories: map[string]int{"Work": 5, "Bills": 2},
	}, time.Now()))

	m := New(s, keys.DefaultKeyMap(), 100, 30)
	cmd := m.Load(stale)
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())
	assert.Contains(t, m.View(), "running")

	m, _ = m.Update(cmd())
	assert.False(t, m.Loading())

	view := m.View()
	assert.Contains(t, view, "Inbox organisation")
	assert.Contains(t, view, "7 e-mails")
	assert.Contains(t, view, "Categories (2)")
	assert.Contains(t, view, "Bills")
}

func TestFailedRun_ShowsError(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 100, 30)
	assert.Nil(t, m.Load(model.Run{
		ID:     "r1",
		Kind:   model.OperationDuplicates,
		Status: model.RunStatusFailed,
		Error:  "Invalid credentials",
	}))

	assert.Contains(t, m.View(), "Invalid credentials")
	assert.NotContains(t, m.View(), "duplicates")
}

func TestBack(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 100, 30)
	assert.Contains(t, m.View(), "No run selected")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
