// Package config is the settings view: server address, timeout, log
// level and the log markers, saved back to the config file.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/theme"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeForm           ConfigMode = iota // Editing the settings
	ModeValidating                       // Testing the server address
	ModeValidateResult                   // Show the test and save result
)

const checkTimeout = 5 * time.Second

// ConfigDoneMsg signals the settings view should close. Saved is true when
// the file was written.
type ConfigDoneMsg struct {
	Saved bool
}

// ValidateResultMsg carries the result of the reachability test.
type ValidateResultMsg struct {
	URL string
	Err error
}

// configSavedMsg is sent after the file was written.
type configSavedMsg struct{ err error }

// CheckFunc checks that a MailNest server answers at baseURL.
type CheckFunc func(ctx context.Context, baseURL string) error

// SaveFunc writes cfg to path.
type SaveFunc func(path string, cfg *model.AppConfig) error

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL  string
	timeout  string
	level    string
	errors   string
	success  string
	warnings string
}

// Model is the Bubble Tea model for the settings view.
type Model struct {
	mode    ConfigMode
	current model.AppConfig // as last saved
	cfg     model.AppConfig // being edited
	path    string
	check   CheckFunc
	save    SaveFunc
	form    *huh.Form
	fb      *formBindings
	spinner spinner.Model

	validError error
	saveError  error
	saved      bool

	width, height int
}

// New creates the settings view for cfg, saved to path.
func New(cfg model.AppConfig, path string, check CheckFunc, save SaveFunc, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeForm,
		current: cfg,
		cfg:     cfg,
		path:    path,
		check:   check,
		save:    save,
		fb:      &formBindings{},
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init opens the form with the current settings.
func (m *Model) Init() tea.Cmd {
	m.cfg = m.current
	m.validError = nil
	m.saveError = nil

	*m.fb = formBindings{
		baseURL:  m.cfg.Server.BaseURL,
		timeout:  strconv.Itoa(m.cfg.Server.TimeoutSec),
		level:    m.cfg.Log.Level,
		errors:   strings.Join(m.cfg.Monitor.Markers.Error, ", "),
		success:  strings.Join(m.cfg.Monitor.Markers.Success, ", "),
		warnings: strings.Join(m.cfg.Monitor.Markers.Warning, ", "),
	}
	if m.fb.level == "" {
		m.fb.level = "info"
	}
	return m.reopenForm()
}

// reopenForm shows a fresh form over the current bindings.
func (m *Model) reopenForm() tea.Cmd {
	m.mode = ModeForm
	m.saved = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Config returns the settings as last saved.
func (m Model) Config() model.AppConfig {
	return m.current
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ValidateResultMsg:
		m.validError = msg.Err
		if msg.Err != nil {
			m.mode = ModeValidateResult
			return m, nil
		}
		return m, m.saveConfig()

	case configSavedMsg:
		m.saveError = msg.err
		m.saved = msg.err == nil
		if m.saved {
			m.current = m.cfg
		}
		m.mode = ModeValidateResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.mode == ModeForm && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// handleKeyMsg processes key messages based on the current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		if msg.String() == "esc" {
			return m, func() tea.Msg { return ConfigDoneMsg{} }
		}
		return m.updateForm(msg)

	case ModeValidating:
		// Only allow escape during validation
		if msg.String() == "esc" {
			cmd := m.reopenForm()
			return m, cmd
		}
		return m, nil

	case ModeValidateResult:
		return m.handleValidateResultKeys(msg)
	}
	return m, nil
}

// handleValidateResultKeys processes key events on the result screen.
func (m Model) handleValidateResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		saved := m.saved
		return m, func() tea.Msg { return ConfigDoneMsg{Saved: saved} }
	case "r":
		if m.validError != nil {
			return m, m.startValidation()
		}
	case "s":
		if m.validError != nil && !m.saved {
			return m, m.saveConfig()
		}
	case "e":
		cmd := m.reopenForm()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyForm()
		return m, m.startValidation()
	case huh.StateAborted:
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}
	return m, cmd
}

// applyForm copies the form values into cfg. The form validators have
// already checked them.
func (m *Model) applyForm() {
	m.cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/")
	m.cfg.Server.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(m.fb.timeout))
	m.cfg.Log.Level = m.fb.level
	m.cfg.Monitor.Markers = model.Markers{
		Error:   splitList(m.fb.errors),
		Success: splitList(m.fb.success),
		Warning: splitList(m.fb.warnings),
	}
}

func (m *Model) startValidation() tea.Cmd {
	m.mode = ModeValidating
	m.validError = nil
	return tea.Batch(m.spinner.Tick, m.validateServer(m.cfg.Server.BaseURL))
}

func (m Model) validateServer(baseURL string) tea.Cmd {
	check := m.check
	return func() tea.Msg {
		if check == nil {
			return ValidateResultMsg{URL: baseURL}
		}
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return ValidateResultMsg{URL: baseURL, Err: check(ctx, baseURL)}
	}
}

func (m Model) saveConfig() tea.Cmd {
	save, path, cfg := m.save, m.path, m.cfg
	return func() tea.Msg {
		return configSavedMsg{err: save(path, &cfg)}
	}
}

// View renders the settings view.
func (m Model) View() string {
	title := theme.TitleStyle.Render("⚙️ Settings")

	var body string
	switch m.mode {
	case ModeForm:
		if m.form != nil {
			body = m.form.View()
		}
	case ModeValidating:
		body = fmt.Sprintf("%s Checking %s ...", m.spinner.View(), m.cfg.Server.BaseURL)
	case ModeValidateResult:
		body = m.renderResult()
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func (m Model) renderResult() string {
	var lines []string
	if m.validError != nil {
		lines = append(lines,
			theme.ErrorTextStyle.Render("✗ "+m.cfg.Server.BaseURL+" is not reachable"),
			theme.HelpStyle.Render(m.validError.Error()),
		)
	} else {
		lines = append(lines, theme.SeverityStyle(model.SeveritySuccess).Render("✓ Server reachable"))
	}

	switch {
	case m.saveError != nil:
		lines = append(lines, theme.ErrorTextStyle.Render("Could not save: "+m.saveError.Error()))
	case m.saved:
		lines = append(lines,
			"Saved to "+m.path,
			theme.HelpStyle.Render("Restart mailnest to connect to a new server address."),
		)
	}

	hint := "enter close | e edit"
	if m.validError != nil && !m.saved {
		hint = "r retry | s save anyway | e edit | esc close"
	}
	lines = append(lines, "", theme.HelpStyle.Render(hint))
	return strings.Join(lines, "\n")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Placeholder("http://localhost:5000").
				Validate(validateBaseURL).
				Value(&m.fb.baseURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Description("0 waits as long as the server needs").
				Validate(validateTimeout).
				Value(&m.fb.timeout),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&m.fb.level),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Error markers").
				Description("Comma-separated; empty keeps the defaults").
				Value(&m.fb.errors),
			huh.NewInput().
				Title("Success markers").
				Value(&m.fb.success),
			huh.NewInput().
				Title("Warning markers").
				Value(&m.fb.warnings),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("enter an http:// or https:// address")
	}
	return nil
}

func validateTimeout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of seconds, 0 or more")
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
