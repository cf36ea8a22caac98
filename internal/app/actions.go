package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/admin"
	"github.com/nhle/mailnest/internal/api"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/ui/dialog"
	uimonitor "github.com/nhle/mailnest/internal/ui/monitor"
)

// Confirmation dialog IDs.
const (
	confirmClearHistory = "clear-history"
	confirmSaveCreds    = "save-creds"
	confirmForgetCreds  = "forget-creds"
	confirmLogout       = "logout"
	confirmRevoke       = "revoke"
)

var emptyCredentials = model.Credentials{}

const sessionExpiredText = "Your session expired. Please log in again."

// alwaysYes is passed to service calls whose confirmation already
// happened in a dialog.
func alwaysYes(string) bool { return true }

// startResultMsg is sent once the start request was answered.
type startResultMsg struct{ err error }

// historyLoadedMsg is sent after the history was fetched.
type historyLoadedMsg struct{ err error }

// historyClearedMsg is sent after the history was cleared.
type historyClearedMsg struct {
	cleared bool
	err     error
}

// gmailLoadedMsg carries the saved mailbox credentials.
type gmailLoadedMsg struct {
	creds model.GmailCredentials
	err   error
}

// gmailSavedMsg is sent after the mailbox credentials were saved.
type gmailSavedMsg struct{ err error }

// gmailRemovedMsg is sent after the saved credentials were removed.
type gmailRemovedMsg struct{ err error }

// authResultMsg is sent after a login or registration attempt.
type authResultMsg struct {
	register bool
	redirect string
	err      error
}

// loggedOutMsg is sent after logging out.
type loggedOutMsg struct{ err error }

// invitesLoadedMsg carries the invite list.
type invitesLoadedMsg struct {
	list model.InviteList
	err  error
}

// inviteGeneratedMsg carries a newly created invite code.
type inviteGeneratedMsg struct {
	code string
	err  error
}

// inviteRevokedMsg carries the backend's answer to a revocation.
type inviteRevokedMsg struct {
	message string
	err     error
}

// onConfirmed dispatches an answered confirmation dialog.
func (m *Model) onConfirmed(msg dialog.ConfirmedMsg) tea.Cmd {
	if !msg.OK {
		if msg.ID == confirmRevoke {
			m.pendingRevoke = ""
		}
		return nil
	}

	switch msg.ID {
	case confirmClearHistory:
		return m.clearHistory()
	case confirmSaveCreds:
		return m.saveGmail(m.monitorView.Credentials())
	case confirmForgetCreds:
		return m.removeGmail()
	case confirmLogout:
		return m.logout()
	case confirmRevoke:
		code := m.pendingRevoke
		m.pendingRevoke = ""
		return m.revokeInvite(code)
	}
	return nil
}

// startOperation asks the monitor to start an operation.
func (m *Model) startOperation(msg uimonitor.StartMsg) tea.Cmd {
	mon := m.deps.Monitor
	var opts []monitor.StartOption
	if !msg.DeleteFromInbox {
		opts = append(opts, monitor.KeepInbox())
	}
	return func() tea.Msg {
		err := mon.StartOperation(context.Background(), msg.Kind, msg.Credentials, opts...)
		return startResultMsg{err: err}
	}
}

// loadHistory returns a command that fetches the persisted log.
func (m Model) loadHistory() tea.Cmd {
	mon := m.deps.Monitor
	return func() tea.Msg {
		return historyLoadedMsg{err: mon.LoadHistory(context.Background())}
	}
}

func (m Model) clearHistory() tea.Cmd {
	mon := m.deps.Monitor
	return func() tea.Msg {
		ok, err := mon.ClearHistory(context.Background(), alwaysYes)
		return historyClearedMsg{cleared: ok, err: err}
	}
}

func (m Model) loadGmail() tea.Cmd {
	acc := m.deps.Accounts
	return func() tea.Msg {
		creds, err := acc.LoadGmail(context.Background())
		return gmailLoadedMsg{creds: creds, err: err}
	}
}

func (m Model) saveGmail(creds model.Credentials) tea.Cmd {
	acc := m.deps.Accounts
	return func() tea.Msg {
		_, err := acc.SaveGmail(context.Background(), creds, alwaysYes)
		return gmailSavedMsg{err: err}
	}
}

func (m Model) removeGmail() tea.Cmd {
	acc := m.deps.Accounts
	return func() tea.Msg {
		_, err := acc.RemoveGmail(context.Background(), alwaysYes)
		return gmailRemovedMsg{err: err}
	}
}

func (m Model) login(in account.LoginInput) tea.Cmd {
	acc := m.deps.Accounts
	return func() tea.Msg {
		redirect, err := acc.Login(context.Background(), in)
		return authResultMsg{redirect: redirect, err: err}
	}
}

func (m Model) register(in account.RegisterInput) tea.Cmd {
	acc := m.deps.Accounts
	return func() tea.Msg {
		redirect, err := acc.Register(context.Background(), in)
		return authResultMsg{register: true, redirect: redirect, err: err}
	}
}

func (m Model) logout() tea.Cmd {
	acc := m.deps.Accounts
	return func() tea.Msg {
		return loggedOutMsg{err: acc.Logout(context.Background())}
	}
}

func (m Model) loadInvites() tea.Cmd {
	svc := m.deps.Admin
	return func() tea.Msg {
		list, err := svc.List(context.Background())
		return invitesLoadedMsg{list: list, err: err}
	}
}

func (m Model) generateInvite() tea.Cmd {
	svc := m.deps.Admin
	return func() tea.Msg {
		code, err := svc.Generate(context.Background())
		return inviteGeneratedMsg{code: code, err: err}
	}
}

// revokeInvite looks the code up again so a row that was used in the
// meantime is refused.
func (m Model) revokeInvite(code string) tea.Cmd {
	svc := m.deps.Admin
	return func() tea.Msg {
		ctx := context.Background()
		list, err := svc.List(ctx)
		if err != nil {
			return inviteRevokedMsg{err: err}
		}
		inv, ok := admin.Find(list, code)
		if !ok {
			inv = model.Invite{Code: code}
		}
		msg, err := svc.Revoke(ctx, inv, alwaysYes)
		return inviteRevokedMsg{message: msg, err: err}
	}
}

// pingServer checks a server address typed into the settings view.
func pingServer(ctx context.Context, baseURL string) error {
	client, err := api.NewClient(baseURL, api.WithTimeout(5*time.Second))
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}
