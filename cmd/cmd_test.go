package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/admin"
	"github.com/nhle/mailnest/internal/api"
	"github.com/nhle/mailnest/internal/credential"
	"github.com/nhle/mailnest/internal/model"
)

const inviteListJSON = `{
	"total": 2, "disponiveis": 1, "usados": 1,
	"convites": [
		{"codigo": "ABCD1234", "criado_por": "admin", "criado_em": "2024-01-01", "usado": false},
		{"codigo": "USED0001", "criado_por": "admin", "criado_em": "2024-01-02", "usado": true, "usado_por": "bob", "usado_em": "2024-01-03"}
	]
}`

type backend struct {
	mu     sync.Mutex
	calls  map[string]int
	bodies map[string]map[string]any
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func newBackend(t *testing.T) (*httptest.Server, *backend) {
	t.Helper()
	b := &backend{calls: make(map[string]int), bodies: make(map[string]map[string]any)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls[key]++
		b.bodies[key] = body
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == api.PathListInvites:
			_, _ = w.Write([]byte(inviteListJSON))
		case r.URL.Path == api.PathGenerateInvite:
			_, _ = w.Write([]byte(`{"codigo":"NEWCODE1"}`))
		case r.URL.Path == api.PathLogs:
			_, _ = w.Write([]byte(`{"logs":["[09:00:00] ✅ done","[09:00:01] ❌ Erro: boom"]}`))
		case r.URL.Path == api.PathLogin:
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte(`{"redirect":"/"}`))
		case r.URL.Path == api.PathGmailCredentials && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"success":true,"gmail_email":"me@gmail.com","has_password":true}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, b
}

// execute runs the CLI against srv with a throwaway config and an
// in-memory keyring.
func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	conf := "server:\n  base_url: " + srv.URL + "\nlog:\n  file: \"\"\nstore:\n  path: " +
		filepath.Join(dir, "runs.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(conf), 0o600))

	ring := keyring.NewArrayKeyring(nil)
	prev := openSessions
	openSessions = func() (account.SessionStore, error) { return credential.NewStore(ring), nil }
	t.Cleanup(func() { openSessions = prev })

	outputFormat = formatTable
	assumeYes = false
	loginInvite, loginUsername, loginPassword = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInvitesList_Table(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "invites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2   Available: 1   Used: 1")
	assert.Contains(t, out, "ABCD1234")
	assert.Contains(t, out, admin.BadgeUsed)
	assert.Contains(t, out, "Created by")
}

func TestInvitesList_JSON(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "invites", "list", "-o", "json")
	require.NoError(t, err)

	var list model.InviteList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Invites, 2)
	assert.True(t, list.Invites[1].Used)
}

func TestInvitesRevoke_UsedCodeRefused(t *testing.T) {
	srv, b := newBackend(t)

	_, err := execute(t, srv, "invites", "revoke", "used0001", "--yes")
	require.ErrorIs(t, err, admin.ErrInviteUsed)
	assert.Zero(t, b.count("DELETE "+api.PathRevokeInvite+"USED0001"))
}

func TestInvitesRevoke_Available(t *testing.T) {
	srv, b := newBackend(t)

	out, err := execute(t, srv, "invites", "revoke", "ABCD1234", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Equal(t, 1, b.count("DELETE "+api.PathRevokeInvite+"ABCD1234"))
}

func TestInvitesGenerate(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "invites", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "NEWCODE1")
}

func TestLogs_YAML(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "logs", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "logs:")
	assert.Contains(t, out, "Erro: boom")
}

func TestLogsClear_WithYes(t *testing.T) {
	srv, b := newBackend(t)

	out, err := execute(t, srv, "logs", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Logs cleared.")
	assert.Equal(t, 1, b.count("POST "+api.PathClearLogs))
}

func TestLogin_InviteIsUpperCased(t *testing.T) {
	srv, b := newBackend(t)

	out, err := execute(t, srv, "login", "--invite", " abcd1234 ")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	b.mu.Lock()
	body := b.bodies["POST "+api.PathLogin]
	b.mu.Unlock()
	assert.Equal(t, "ABCD1234", body["invite_code"])
	assert.Equal(t, model.LoginTypeInvite, body["login_type"])
}

func TestLogin_MissingUsernameSendsNothing(t *testing.T) {
	srv, b := newBackend(t)

	_, err := execute(t, srv, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Enter your username and password")
	assert.Zero(t, b.count("POST "+api.PathLogin))
}

func TestCredsShow(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "creds", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "me@gmail.com")
	assert.Contains(t, out, "saved")
}

func TestRuns_EmptyJournal(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestUnknownOutputFormat(t *testing.T) {
	srv, _ := newBackend(t)

	_, err := execute(t, srv, "invites", "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
