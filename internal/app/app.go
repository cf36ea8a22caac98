package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/admin"
	"github.com/nhle/mailnest/internal/api"
	"github.com/nhle/mailnest/internal/keys"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/push"
	"github.com/nhle/mailnest/internal/store"
	appsync "github.com/nhle/mailnest/internal/sync"
	"github.com/nhle/mailnest/internal/theme"
	"github.com/nhle/mailnest/internal/ui"
	"github.com/nhle/mailnest/internal/ui/authform"
	"github.com/nhle/mailnest/internal/ui/command"
	"github.com/nhle/mailnest/internal/ui/config"
	"github.com/nhle/mailnest/internal/ui/detail"
	"github.com/nhle/mailnest/internal/ui/dialog"
	helpview "github.com/nhle/mailnest/internal/ui/help"
	"github.com/nhle/mailnest/internal/ui/history"
	"github.com/nhle/mailnest/internal/ui/invites"
	uimonitor "github.com/nhle/mailnest/internal/ui/monitor"
	"github.com/nhle/mailnest/internal/ui/runlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMonitor ViewState = iota
	ViewHistory
	ViewInvites
	ViewRuns
	ViewRunDetail
	ViewHelp
	ViewCommand
	ViewAuth
	ViewSettings
)

// tabViews are the views reachable from the tab bar, in order.
var tabViews = []ViewState{ViewMonitor, ViewHistory, ViewInvites, ViewRuns}

var tabNames = []string{"1 Monitor", "2 History", "3 Invites", "4 Runs"}

// Deps are the services the UI drives.
type Deps struct {
	Monitor  *monitor.Monitor
	Relay    *appsync.Relay
	Accounts *account.Service
	Admin    *admin.Service
	Log      zerolog.Logger

	// Store is the local run journal; nil when it could not be opened.
	Store store.Store

	// Server is shown in the header.
	Server string

	// LoggedIn is true when a saved session was restored.
	LoggedIn bool

	// Config and ConfigPath feed the settings view. SaveConfig defaults
	// to model.SaveConfig and Check to a Ping of the new address.
	Config     model.AppConfig
	ConfigPath string
	SaveConfig config.SaveFunc
	Check      config.CheckFunc
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and the backend services.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	deps         Deps

	monitorView uimonitor.Model
	historyView history.Model
	invitesView invites.Model
	runsView    runlist.Model
	runDetail   detail.Model
	helpView    helpview.Model
	commandView command.Model
	authView    authform.Model
	settings    config.Model
	dialog      dialog.Model
	spinner     spinner.Model

	conn          push.ConnState
	loggedIn      bool
	pendingRevoke string
	flash         string
	ready         bool
}

// New creates the root application model.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()
	if deps.SaveConfig == nil {
		deps.SaveConfig = model.SaveConfig
	}
	if deps.Check == nil {
		deps.Check = pingServer
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.SeverityStyle(model.SeverityInfo)

	m := Model{
		currentView: ViewMonitor,
		keys:        k,
		deps:        deps,
		monitorView: uimonitor.New(k, 80, 24),
		historyView: history.New(k, 80, 24),
		invitesView: invites.New(k, 80, 24),
		runsView:    runlist.New(deps.Store, k, 80, 24),
		runDetail:   detail.New(deps.Store, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		authView:    authform.New(80, 24),
		settings:    config.New(deps.Config, deps.ConfigPath, deps.Check, deps.SaveConfig, 80, 24),
		dialog:      dialog.New(80, 24),
		spinner:     sp,
		conn:        push.StateConnecting,
		loggedIn:    deps.LoggedIn,
	}
	if !deps.LoggedIn {
		m.currentView = ViewAuth
	}
	return m
}

// Init starts the push channel and loads what the first view needs.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.deps.Relay.Start(), m.spinner.Tick}
	if m.loggedIn {
		cmds = append(cmds, m.loadGmail(), m.loadHistory())
	} else {
		cmds = append(cmds, m.authView.StartLogin())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.monitorView.SetSize(w, h)
		m.historyView.SetSize(w, h)
		m.invitesView.SetSize(w, h)
		m.runsView.SetSize(w, h)
		m.runDetail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.authView.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.dialog.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshState()
		return m, cmd

	case appsync.EventMsg:
		notice := m.deps.Monitor.HandleEvent(msg.Event)
		m.refreshState()
		m.dialog.ShowNotice(notice)
		if !notice.Empty() {
			// The run just finished in the journal.
			return m, tea.Batch(m.deps.Relay.WaitForNext(), m.runsView.LoadRuns())
		}
		return m, m.deps.Relay.WaitForNext()

	case appsync.ConnStateMsg:
		m.conn = msg.State
		if msg.State == push.StateDisconnected {
			if notice := m.deps.Monitor.Interrupt(); !notice.Empty() {
				m.refreshState()
				m.dialog.ShowNotice(notice)
				return m, tea.Batch(m.deps.Relay.WaitForNext(), m.runsView.LoadRuns())
			}
		}
		return m, m.deps.Relay.WaitForNext()

	case dialog.ConfirmedMsg:
		return m, m.onConfirmed(msg)

	case dialog.ClosedMsg:
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case uimonitor.StartMsg:
		m.monitorView.SetFormError("")
		m.flash = ""
		return m, m.startOperation(msg)

	case uimonitor.SaveCredsMsg:
		if err := account.ValidateGmail(msg.Credentials); err != nil {
			m.monitorView.SetFormError(monitor.Message(err))
			return m, nil
		}
		return m, m.dialog.Ask(confirmSaveCreds, account.SaveGmailPrompt)

	case uimonitor.ForgetCredsMsg:
		return m, m.dialog.Ask(confirmForgetCreds, account.RemoveGmailPrompt)

	case history.RefreshMsg:
		return m, m.loadHistory()

	case history.ClearMsg:
		return m, m.dialog.Ask(confirmClearHistory, monitor.ClearHistoryPrompt)

	case invites.RefreshMsg:
		return m, m.loadInvites()

	case invites.GenerateMsg:
		return m, m.generateInvite()

	case invites.RevokeMsg:
		if msg.Invite.Used {
			m.dialog.ShowNotice(monitor.ErrorNotice(
				fmt.Errorf("code %s was already used and cannot be revoked", msg.Invite.Code),
			))
			return m, nil
		}
		m.pendingRevoke = msg.Invite.Code
		return m, m.dialog.Ask(confirmRevoke, admin.RevokePrompt(msg.Invite.Code))

	case runlist.RunsLoadedMsg:
		var cmd tea.Cmd
		m.runsView, cmd = m.runsView.Update(msg)
		if msg.Err != nil {
			m.deps.Log.Warn().Err(msg.Err).Msg("reading run journal")
		}
		return m, cmd

	case runlist.SelectedRunMsg:
		m.currentView = ViewRunDetail
		return m, m.runDetail.Load(msg.Run)

	case detail.DetailLoadedMsg:
		var cmd tea.Cmd
		m.runDetail, cmd = m.runDetail.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewRuns
		return m, nil

	case authform.LoginMsg:
		return m, m.login(msg.Input)

	case authform.RegisterMsg:
		return m, m.register(msg.Input)

	case authform.CancelMsg:
		m.currentView = ViewMonitor
		return m, nil

	case config.ConfigDoneMsg:
		m.currentView = m.previousView
		if msg.Saved {
			m.deps.Config = m.settings.Config()
			m.flash = "Settings saved; restart to apply"
		}
		return m, nil

	case startResultMsg:
		m.refreshState()
		return m, m.handleStartResult(msg.err)

	case historyLoadedMsg:
		m.refreshState()
		return m, m.showError(msg.err)

	case historyClearedMsg:
		m.refreshState()
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		if msg.cleared {
			m.flash = "History cleared"
		}
		return m, nil

	case gmailLoadedMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Msg("loading saved credentials")
			return m, nil
		}
		if msg.creds.Email != "" {
			m.monitorView.SetCredentials(model.Credentials{Email: msg.creds.Email, Password: msg.creds.Password})
		}
		return m, nil

	case gmailSavedMsg:
		if msg.err != nil {
			if monitor.KindOf(msg.err) == monitor.KindValidation {
				m.monitorView.SetFormError(monitor.Message(msg.err))
				return m, nil
			}
			return m, m.showError(msg.err)
		}
		m.monitorView.SetFormError("")
		m.flash = "✅ Credentials saved"
		return m, nil

	case gmailRemovedMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.monitorView.SetCredentials(emptyCredentials)
		m.flash = "Saved credentials removed"
		return m, nil

	case authResultMsg:
		return m, m.handleAuthResult(msg)

	case loggedOutMsg:
		m.loggedIn = false
		m.showError(msg.err)
		m.monitorView.SetCredentials(emptyCredentials)
		m.authView.Reset()
		m.currentView = ViewAuth
		return m, m.authView.StartLogin()

	case invitesLoadedMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.invitesView.SetList(msg.list)
		return m, nil

	case inviteGeneratedMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.invitesView.SetGenerated(msg.code)
		m.flash = "Invite " + msg.code + " created"
		return m, m.loadInvites()

	case inviteRevokedMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		if msg.message != "" {
			m.flash = msg.message
		}
		return m, m.loadInvites()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.deps.Relay.Stop()
			return m, tea.Quit
		}

		// An open dialog takes every key.
		if m.dialog.Active() {
			var cmd tea.Cmd
			m.dialog, cmd = m.dialog.Update(msg)
			return m, cmd
		}

		if m.capturesInput() {
			if key.Matches(msg, m.keys.Back) {
				switch {
				case m.currentView == ViewCommand:
					m.currentView = m.previousView
					return m, nil
				case m.currentView == ViewAuth && m.loggedIn:
					m.authView.Reset()
					m.currentView = ViewMonitor
					return m, nil
				}
			}
			return m.updateActiveView(msg)
		}

		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	if m.dialog.Active() {
		var cmd tea.Cmd
		m.dialog, cmd = m.dialog.Update(msg)
		return m, cmd
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesInput reports whether the active view has a text input that
// should receive every key.
func (m Model) capturesInput() bool {
	switch m.currentView {
	case ViewCommand, ViewAuth, ViewSettings:
		return true
	case ViewMonitor:
		return m.monitorView.Editing()
	}
	return false
}

// handleGlobalKey handles keys that work on every main view.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.deps.Relay.Stop()
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.NextView):
		return m.switchView(nextTab(m.currentView)), true

	case key.Matches(msg, m.keys.Monitor):
		return m.switchView(ViewMonitor), true

	case key.Matches(msg, m.keys.History):
		return m.switchView(ViewHistory), true

	case key.Matches(msg, m.keys.Invites):
		return m.switchView(ViewInvites), true

	case key.Matches(msg, m.keys.Runs):
		return m.switchView(ViewRuns), true

	case key.Matches(msg, m.keys.Settings):
		return m.openSettings(), true

	case key.Matches(msg, m.keys.Login):
		return m.openAuth(authform.ModeLogin), true

	case key.Matches(msg, m.keys.Logout):
		if m.loggedIn {
			return m.dialog.Ask(confirmLogout, account.LogoutPrompt), true
		}
	}
	return nil, false
}

// switchView activates a tab and loads its data on first visit.
func (m *Model) switchView(v ViewState) tea.Cmd {
	m.previousView = m.currentView
	m.currentView = v
	m.flash = ""

	switch v {
	case ViewHistory:
		if !m.deps.Monitor.Snapshot().HistoryLoaded {
			return m.loadHistory()
		}
	case ViewInvites:
		return m.loadInvites()
	case ViewRuns:
		return m.runsView.LoadRuns()
	}
	return nil
}

func nextTab(v ViewState) ViewState {
	if v == ViewRunDetail {
		v = ViewRuns
	}
	for i, t := range tabViews {
		if t == v {
			return tabViews[(i+1)%len(tabViews)]
		}
	}
	return ViewMonitor
}

func (m *Model) openAuth(mode authform.Mode) tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewAuth
	m.authView.SetError("")
	if mode == authform.ModeRegister {
		return m.authView.StartRegister()
	}
	return m.authView.StartLogin()
}

func (m *Model) openSettings() tea.Cmd {
	if m.currentView != ViewSettings {
		m.previousView = m.currentView
	}
	m.currentView = ViewSettings
	m.flash = ""
	return m.settings.Init()
}

// refreshState pushes the monitor snapshot into the views that render it.
func (m *Model) refreshState() {
	st := m.deps.Monitor.Snapshot()
	m.monitorView.SetState(st)
	m.historyView.SetState(st)
}

// showError raises an error notice for err, if any. A rejected session
// returns the login command instead.
func (m *Model) showError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	m.deps.Log.Warn().Err(err).Msg("request failed")

	var apiErr *api.Error
	if m.loggedIn && errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		return m.sessionExpired()
	}
	m.dialog.ShowNotice(monitor.ErrorNotice(err))
	return nil
}

// sessionExpired sends the user back to the login form.
func (m *Model) sessionExpired() tea.Cmd {
	m.loggedIn = false
	m.authView.Reset()
	m.authView.SetError(sessionExpiredText)
	m.currentView = ViewAuth
	return m.authView.StartLogin()
}

func (m *Model) handleStartResult(err error) tea.Cmd {
	switch monitor.KindOf(err) {
	case monitor.KindNone:
		return nil
	case monitor.KindValidation:
		m.monitorView.SetFormError(monitor.Message(err))
		if !m.monitorView.Editing() {
			return m.monitorView.EditCredentials()
		}
		return nil
	default:
		return m.showError(err)
	}
}

func (m *Model) handleAuthResult(msg authResultMsg) tea.Cmd {
	if msg.err != nil {
		m.authView.SetError(monitor.Message(msg.err))
		if msg.register {
			return m.authView.StartRegister()
		}
		return m.authView.StartLogin()
	}

	m.deps.Log.Debug().Str("redirect", msg.redirect).Msg("authenticated")
	m.loggedIn = true
	m.authView.Reset()
	m.currentView = ViewMonitor
	m.flash = "Logged in"
	return tea.Batch(m.loadGmail(), m.loadHistory())
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMonitor:
		m.monitorView, cmd = m.monitorView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewInvites:
		m.invitesView, cmd = m.invitesView.Update(msg)
	case ViewRuns:
		m.runsView, cmd = m.runsView.Update(msg)
	case ViewRunDetail:
		m.runDetail, cmd = m.runDetail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("📬 MailNest", m.headerStatus())
	tabs := m.layout.RenderTabs(tabNames, m.activeTab())

	content := m.renderContent()
	if m.dialog.Active() {
		content = m.dialog.View()
	}

	statusBar := m.layout.RenderStatusBar(m.keyHints())
	return m.layout.RenderWithFrame(header, tabs, content, statusBar)
}

func (m Model) activeTab() int {
	v := m.currentView
	if v == ViewHelp || v == ViewCommand || v == ViewSettings {
		v = m.previousView
	}
	if v == ViewRunDetail {
		v = ViewRuns
	}
	for i, t := range tabViews {
		if t == v {
			return i
		}
	}
	return -1
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMonitor:
		return m.monitorView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewInvites:
		return m.invitesView.View()
	case ViewRuns:
		return m.runsView.View()
	case ViewRunDetail:
		return m.runDetail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewAuth:
		return m.authView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

// headerStatus describes the push connection and the running operation.
func (m Model) headerStatus() string {
	conn := theme.ConnStyle(m.conn == push.StateConnected).Render("● " + m.conn.String())
	if m.conn == push.StateConnecting {
		conn = m.spinner.View() + " " + m.conn.String()
	}

	st := m.deps.Monitor.Snapshot()
	status := conn
	if st.InFlight {
		status = fmt.Sprintf("%s %s %d%% | %s", m.spinner.View(), st.Operation.Label(), st.Progress.Percent(), conn)
	}

	if !m.loggedIn {
		status += " | logged out"
	}
	if m.deps.Server != "" {
		status += " | " + m.deps.Server
	}
	return status
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.flash != "" && m.currentView != ViewAuth {
		return m.flash
	}

	if m.dialog.Active() {
		return "enter confirm | esc cancel"
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewAuth:
		return "enter next | ctrl+c quit"
	case ViewSettings:
		return "enter next field | esc close"
	case ViewHistory:
		return "r refresh | c clear | j/k scroll | tab next view | q quit"
	case ViewInvites:
		return "g generate | x revoke | r refresh | tab next view | q quit"
	case ViewRuns:
		return "enter open | f status | t operation | r refresh | tab next view | q quit"
	case ViewRunDetail:
		return "esc back | r refresh | j/k scroll | q quit"
	default:
		if m.monitorView.Editing() {
			return "enter next field | esc done"
		}
		return "o organise | d duplicates | e edit mailbox | s save | tab next view | ? help | q quit"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "organize", "organise":
		return m.startFromForm(uimonitor.StartMsg{Kind: model.OperationOrganize})
	case "duplicates":
		return m.startFromForm(uimonitor.StartMsg{Kind: model.OperationDuplicates})
	case "history":
		return m.switchView(ViewHistory)
	case "clear":
		return m.dialog.Ask(confirmClearHistory, monitor.ClearHistoryPrompt)
	case "invites":
		return m.switchView(ViewInvites)
	case "runs":
		return m.switchView(ViewRuns)
	case "generate":
		return m.generateInvite()
	case "login":
		return m.openAuth(authform.ModeLogin)
	case "register":
		return m.openAuth(authform.ModeRegister)
	case "logout":
		return m.dialog.Ask(confirmLogout, account.LogoutPrompt)
	case "settings":
		return m.openSettings()
	case "quit", "q":
		m.deps.Relay.Stop()
		return tea.Quit
	default:
		m.flash = fmt.Sprintf("unknown command %q", cmd)
		return nil
	}
}

// startFromForm starts an operation with the monitor form's values.
func (m *Model) startFromForm(msg uimonitor.StartMsg) tea.Cmd {
	m.currentView = ViewMonitor
	msg.Credentials = m.monitorView.Credentials()
	msg.DeleteFromInbox = m.monitorView.DeleteFromInbox()
	return m.startOperation(msg)
}
