package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/model"
)

type recorder struct {
	path  string
	saved *model.AppConfig
	err   error
}

func (r *recorder) save(path string, cfg *model.AppConfig) error {
	r.path = path
	r.saved = cfg
	return r.err
}

func newTestModel(t *testing.T, checkErr error) (Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	check := func(context.Context, string) error { return checkErr }
	m := New(*model.DefaultAppConfig(), "/tmp/mailnest.yaml", check, rec.save, 100, 30)
	m.Init()
	return m, rec
}

func TestInit_LoadsCurrentValues(t *testing.T) {
	m, _ := newTestModel(t, nil)

	assert.Equal(t, ModeForm, m.mode)
	assert.Equal(t, "http://localhost:5000", m.fb.baseURL)
	assert.Equal(t, "0", m.fb.timeout)
	assert.Equal(t, "info", m.fb.level)
	assert.NotEmpty(t, m.fb.errors)
	assert.Contains(t, m.View(), "Settings")
}

func TestApplyForm(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.fb.baseURL = " https://mail.example.com/ "
	m.fb.timeout = "30"
	m.fb.level = "debug"
	m.fb.errors = "❌, failed ,"
	m.fb.success = ""
	m.fb.warnings = "⚠️"

	m.applyForm()

	cfg := m.cfg
	assert.Equal(t, "https://mail.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"❌", "failed"}, cfg.Monitor.Markers.Error)
	assert.Empty(t, cfg.Monitor.Markers.Success)
	assert.Equal(t, []string{"⚠️"}, cfg.Monitor.Markers.Warning)
}

func TestReachableServer_IsSaved(t *testing.T) {
	m, rec := newTestModel(t, nil)

	cmd := m.startValidation()
	require.NotNil(t, cmd)
	assert.Equal(t, ModeValidating, m.mode)

	m, cmd = m.Update(m.validateServer(m.cfg.Server.BaseURL)())
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	assert.Equal(t, "/tmp/mailnest.yaml", rec.path)
	require.NotNil(t, rec.saved)
	assert.Equal(t, m.cfg, m.Config())
	assert.Equal(t, ModeValidateResult, m.mode)
	assert.True(t, m.saved)
	assert.Contains(t, m.View(), "Saved to /tmp/mailnest.yaml")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ConfigDoneMsg{Saved: true}, cmd())
}

func TestUnreachableServer_NotSavedUntilAsked(t *testing.T) {
	m, rec := newTestModel(t, errors.New("connection refused"))

	m, cmd := m.Update(m.validateServer(m.cfg.Server.BaseURL)())
	assert.Nil(t, cmd)
	assert.Nil(t, rec.saved)
	assert.Contains(t, m.View(), "is not reachable")
	assert.Contains(t, m.View(), "connection refused")

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.NotNil(t, rec.saved)
	assert.True(t, m.saved)
}

func TestSaveFailure_IsShown(t *testing.T) {
	m, rec := newTestModel(t, nil)
	rec.err = errors.New("read-only file system")

	m, cmd := m.Update(ValidateResultMsg{URL: "http://localhost:5000"})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	assert.False(t, m.saved)
	assert.Contains(t, m.View(), "Could not save: read-only file system")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ConfigDoneMsg{}, cmd())
}

func TestEscInForm_Closes(t *testing.T) {
	m, rec := newTestModel(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ConfigDoneMsg{}, cmd())
	assert.Nil(t, rec.saved)
}

func TestSavesThroughModelConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := model.DefaultAppConfig()
	cfg.Server.BaseURL = "http://mailnest.local:8080"

	m := New(*cfg, path, nil, model.SaveConfig, 100, 30)
	m.Init()

	m, cmd := m.Update(m.validateServer(cfg.Server.BaseURL)())
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.True(t, m.saved)

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://mailnest.local:8080", loaded.Server.BaseURL)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateBaseURL("http://localhost:5000"))
	assert.NoError(t, validateBaseURL("https://mail.example.com"))
	assert.Error(t, validateBaseURL("localhost:5000"))
	assert.Error(t, validateBaseURL("ftp://host"))
	assert.Error(t, validateBaseURL(""))

	assert.NoError(t, validateTimeout("0"))
	assert.NoError(t, validateTimeout(" 15 "))
	assert.Error(t, validateTimeout("-1"))
	assert.Error(t, validateTimeout("soon"))
}

func TestUnsavedDraft_DiscardedOnReopen(t *testing.T) {
	m, _ := newTestModel(t, errors.New("connection refused"))
	m.fb.baseURL = "http://elsewhere:9000"
	m.applyForm()

	m, _ = m.Update(m.validateServer(m.cfg.Server.BaseURL)())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ConfigDoneMsg{}, cmd())

	m.Init()
	assert.Equal(t, "http://localhost:5000", m.fb.baseURL)
	assert.Equal(t, "http://localhost:5000", m.Config().Server.BaseURL)
}

func TestEscWhileChecking_ReturnsToForm(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.startValidation()
	require.Equal(t, ModeValidating, m.mode)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeForm, m.mode)
}
