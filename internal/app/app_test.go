package app

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/admin"
	"github.com/nhle/mailnest/internal/api"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/push"
	appsync "github.com/nhle/mailnest/internal/sync"
	"github.com/nhle/mailnest/internal/ui/config"
	"github.com/nhle/mailnest/internal/ui/dialog"
	"github.com/nhle/mailnest/internal/ui/invites"
	uimonitor "github.com/nhle/mailnest/internal/ui/monitor"
)

type hits struct {
	mu    sync.Mutex
	paths map[string]int
}

func (h *hits) count(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paths[key]
}

func newTestModel(t *testing.T, loggedIn bool) (Model, *hits) {
	t.Helper()
	h := &hits{paths: make(map[string]int)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.paths[r.Method+" "+r.URL.Path]++
		h.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case api.PathOrganize, api.PathFindDuplicates:
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"message":"started"}`))
		case api.PathLogs:
			_, _ = w.Write([]byte(`{"logs":["[09:00:00] old run ✅"]}`))
		case api.PathClearLogs:
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	log := zerolog.Nop()
	m := New(Deps{
		Monitor:  monitor.New(client, monitor.WithLogger(log)),
		Relay:    appsync.New(log),
		Accounts: account.New(client, nil, log),
		Admin:    admin.New(client, log),
		Log:      log,
		Server:   srv.URL,
		LoggedIn: loggedIn,
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_LoggedOutStartsOnLogin(t *testing.T) {
	m, _ := newTestModel(t, false)
	assert.Equal(t, ViewAuth, m.currentView)

	m, _ = newTestModel(t, true)
	assert.Equal(t, ViewMonitor, m.currentView)
	assert.Contains(t, m.View(), "MailNest")
}

func TestEvents_UpdateMonitorAndShowNotice(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, cmd := update(t, m, appsync.EventMsg{Event: model.LogEvent{Message: "[10:00:00] Processing 1/2"}})
	assert.NotNil(t, cmd, "waits for the next push message")
	assert.False(t, m.dialog.Active())
	assert.Contains(t, m.View(), "Processing 1/2")

	m, _ = update(t, m, appsync.EventMsg{Event: model.CompletionEvent{
		TotalProcessed: 2,
		CategoryCounts: map[string]int{"Work": 2},
	}})
	require.True(t, m.dialog.Active())
	assert.Contains(t, m.View(), "Total: 2 e-mails")
	assert.Equal(t, model.StatusDone, m.deps.Monitor.Snapshot().Status)
}

func TestStart_ValidationOpensForm(t *testing.T) {
	m, h := newTestModel(t, true)

	m, cmd := update(t, m, keyMsg("o"))
	require.NotNil(t, cmd)
	start, ok := cmd().(uimonitor.StartMsg)
	require.True(t, ok)

	m, cmd = update(t, m, start)
	require.NotNil(t, cmd)
	res := cmd()

	m, _ = update(t, m, res)
	assert.True(t, m.monitorView.Editing())
	assert.Contains(t, m.View(), "Please fill in the e-mail and the password!")
	assert.Zero(t, h.count("POST "+api.PathOrganize))
}

func TestStart_SendsRequest(t *testing.T) {
	m, h := newTestModel(t, true)

	m, cmd := update(t, m, uimonitor.StartMsg{
		Kind:        model.OperationDuplicates,
		Credentials: model.Credentials{Email: "me@gmail.com", Password: "app-pass"},
	})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, h.count("POST "+api.PathFindDuplicates))
	st := m.deps.Monitor.Snapshot()
	assert.True(t, st.InFlight)
	assert.Contains(t, m.View(), "Request sent")
	assert.False(t, m.dialog.Active())
}

func TestConnectionLost_ReleasesOperation(t *testing.T) {
	m, h := newTestModel(t, true)

	start := uimonitor.StartMsg{
		Kind:        model.OperationOrganize,
		Credentials: model.Credentials{Email: "me@gmail.com", Password: "app-pass"},
	}
	m, cmd := update(t, m, start)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.True(t, m.deps.Monitor.Snapshot().InFlight)

	m, cmd = update(t, m, appsync.ConnStateMsg{State: push.StateDisconnected})
	assert.NotNil(t, cmd)
	require.True(t, m.dialog.Active())
	assert.Contains(t, m.View(), monitor.ErrConnectionLost.Error())
	assert.False(t, m.deps.Monitor.Snapshot().InFlight)

	m, cmd = update(t, m, start)
	require.NotNil(t, cmd)
	update(t, m, cmd())
	assert.Equal(t, 2, h.count("POST "+api.PathOrganize))
}

func TestConnectionLost_IdleShowsNothing(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, _ = update(t, m, appsync.ConnStateMsg{State: push.StateDisconnected})
	assert.False(t, m.dialog.Active())
	assert.Equal(t, push.StateDisconnected, m.conn)
}

func TestRejectedSession_ReturnsToLogin(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, cmd := update(t, m, historyLoadedMsg{err: &api.Error{StatusCode: 401, Message: "Login required"}})
	assert.NotNil(t, cmd)
	assert.Equal(t, ViewAuth, m.currentView)
	assert.False(t, m.loggedIn)
	assert.False(t, m.dialog.Active())
	assert.Contains(t, m.View(), sessionExpiredText)
}

func TestForbidden_StaysLoggedIn(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, cmd := update(t, m, invitesLoadedMsg{err: &api.Error{StatusCode: 403, Message: "Admins only"}})
	assert.Nil(t, cmd)
	assert.True(t, m.loggedIn)
	require.True(t, m.dialog.Active())
	assert.Contains(t, m.View(), "Admins only")
}

func TestHistoryTab_LoadsAndClears(t *testing.T) {
	m, h := newTestModel(t, true)

	m, cmd := update(t, m, keyMsg("2"))
	assert.Equal(t, ViewHistory, m.currentView)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "old run")

	m, cmd = update(t, m, keyMsg("c"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.True(t, m.dialog.Active(), "clearing asks first")
	assert.Zero(t, h.count("POST "+api.PathClearLogs))

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, dialog.ConfirmedMsg{ID: confirmClearHistory, OK: false}, cmd())
	assert.False(t, m.dialog.Active())

	m, cmd = update(t, m, dialog.ConfirmedMsg{ID: confirmClearHistory, OK: true})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, h.count("POST "+api.PathClearLogs))
	assert.Contains(t, m.View(), monitor.HistoryPlaceholder)
}

func TestDeclinedConfirmationSendsNothing(t *testing.T) {
	m, h := newTestModel(t, true)

	_, cmd := update(t, m, dialog.ConfirmedMsg{ID: confirmClearHistory, OK: false})
	assert.Nil(t, cmd)
	assert.Zero(t, h.count("POST "+api.PathClearLogs))
}

func TestRevokeUsedInviteIsRefused(t *testing.T) {
	m, h := newTestModel(t, true)

	m, cmd := update(t, m, invitesRevoke(model.Invite{Code: "USED0001", Used: true}))
	assert.Nil(t, cmd)
	require.True(t, m.dialog.Active())
	assert.Contains(t, m.View(), "already used")
	assert.Zero(t, h.count("DELETE "+api.PathRevokeInvite+"USED0001"))
}

func TestSaveCreds_ValidatesBeforeAsking(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, cmd := update(t, m, uimonitor.SaveCredsMsg{})
	assert.Nil(t, cmd)
	assert.False(t, m.dialog.Active())
	assert.Contains(t, m.View(), "Fill in the e-mail and the password before saving")
}

func TestUnknownCommandFlashes(t *testing.T) {
	m, _ := newTestModel(t, true)
	cmd := m.executeCommand("frobnicate")
	assert.Nil(t, cmd)
	assert.Contains(t, m.keyHints(), "unknown command")
}

func TestNextTab(t *testing.T) {
	assert.Equal(t, ViewHistory, nextTab(ViewMonitor))
	assert.Equal(t, ViewInvites, nextTab(ViewHistory))
	assert.Equal(t, ViewRuns, nextTab(ViewInvites))
	assert.Equal(t, ViewMonitor, nextTab(ViewRuns))
	assert.Equal(t, ViewMonitor, nextTab(ViewRunDetail))
	assert.Equal(t, ViewMonitor, nextTab(ViewHelp))
}

func invitesRevoke(inv model.Invite) tea.Msg {
	return invites.RevokeMsg{Invite: inv}
}

func TestSettings_OpenAndClose(t *testing.T) {
	m, _ := newTestModel(t, true)
	m, _ = update(t, m, keyMsg("2"))

	m, _ = update(t, m, keyMsg(","))
	assert.Equal(t, ViewSettings, m.currentView)
	assert.Contains(t, m.View(), "Settings")

	m, _ = update(t, m, config.ConfigDoneMsg{Saved: true})
	assert.Equal(t, ViewHistory, m.currentView)
	assert.Contains(t, m.keyHints(), "restart")
}

func TestRunsTab_WithoutJournal(t *testing.T) {
	m, _ := newTestModel(t, true)

	m, cmd := update(t, m, keyMsg("4"))
	assert.Nil(t, cmd)
	assert.Equal(t, ViewRuns, m.currentView)
	assert.Contains(t, m.View(), "run journal is not available")
}
