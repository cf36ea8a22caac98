package api

import (
	"context"
	"net/url"

	"github.com/nhle/mailnest/internal/model"
)

// Backend paths.
const (
	PathOrganize         = "/api/organizar"
	PathFindDuplicates   = "/api/verificar-duplicatas"
	PathLogs             = "/api/logs"
	PathClearLogs        = "/api/limpar-logs"
	PathGmailCredentials = "/api/gmail/credenciais"
	PathLogin            = "/login"
	PathLogout           = "/logout"
	PathRegister         = "/registrar"
	PathGenerateInvite   = "/api/admin/gerar-convite"
	PathListInvites      = "/api/admin/listar-convites"
	PathRevokeInvite     = "/api/admin/revogar-convite/"
)

// Organize asks the backend to start organising the inbox. The work
// continues asynchronously; progress arrives on the push channel.
func (c *Client) Organize(ctx context.Context, req model.OrganizeRequest) (string, error) {
	var ack ackResponse
	if err := c.Post(ctx, PathOrganize, req, &ack); err != nil {
		return "", err
	}
	return ack.Message, nil
}

// FindDuplicates asks the backend to start a duplicate scan.
func (c *Client) FindDuplicates(ctx context.Context, creds model.Credentials) (string, error) {
	var ack ackResponse
	body := duplicatesRequest{Email: creds.Email, Password: creds.Password}
	if err := c.Post(ctx, PathFindDuplicates, body, &ack); err != nil {
		return "", err
	}
	return ack.Message, nil
}

// Logs returns the persisted log lines of past operations, oldest first.
func (c *Client) Logs(ctx context.Context) ([]string, error) {
	var resp logsResponse
	if err := c.Get(ctx, PathLogs, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// ClearLogs deletes the persisted log lines.
func (c *Client) ClearLogs(ctx context.Context) error {
	return c.Post(ctx, PathClearLogs, nil, nil)
}

// GmailCredentials returns the mailbox credentials saved for the
// logged-in user. A zero value means nothing is saved.
func (c *Client) GmailCredentials(ctx context.Context) (model.GmailCredentials, error) {
	var resp credentialsResponse
	if err := c.Get(ctx, PathGmailCredentials, &resp); err != nil {
		return model.GmailCredentials{}, err
	}
	if !resp.Success {
		return model.GmailCredentials{}, nil
	}
	return resp.GmailCredentials, nil
}

// SaveGmailCredentials stores mailbox credentials on the backend.
func (c *Client) SaveGmailCredentials(ctx context.Context, creds model.GmailCredentials) error {
	var resp credentialsResponse
	body := model.GmailCredentials{Email: creds.Email, Password: creds.Password}
	if err := c.Post(ctx, PathGmailCredentials, body, &resp); err != nil {
		return err
	}
	return successOrError(PathGmailCredentials, "POST", resp)
}

// DeleteGmailCredentials removes the saved mailbox credentials.
func (c *Client) DeleteGmailCredentials(ctx context.Context) error {
	var resp credentialsResponse
	if err := c.Delete(ctx, PathGmailCredentials, &resp); err != nil {
		return err
	}
	return successOrError(PathGmailCredentials, "DELETE", resp)
}

// Login authenticates and stores the session cookie in the jar. It
// returns the path the web client would have redirected to.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	var resp redirectResponse
	if err := c.Post(ctx, PathLogin, req, &resp); err != nil {
		return "", err
	}
	return redirectOrRoot(resp.Redirect), nil
}

// Logout ends the backend session. The response is an HTML redirect, so
// nothing is parsed.
func (c *Client) Logout(ctx context.Context) error {
	return c.Get(ctx, PathLogout, nil)
}

// Register creates an account using an invite code.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	var resp redirectResponse
	if err := c.Post(ctx, PathRegister, req, &resp); err != nil {
		return "", err
	}
	return redirectOrRoot(resp.Redirect), nil
}

// GenerateInvite creates a new invite code (admin only).
func (c *Client) GenerateInvite(ctx context.Context) (string, error) {
	var resp inviteResponse
	if err := c.Post(ctx, PathGenerateInvite, nil, &resp); err != nil {
		return "", err
	}
	return resp.Code, nil
}

// ListInvites returns every invite code with usage statistics (admin only).
func (c *Client) ListInvites(ctx context.Context) (model.InviteList, error) {
	var list model.InviteList
	if err := c.Get(ctx, PathListInvites, &list); err != nil {
		return model.InviteList{}, err
	}
	if list.Invites == nil {
		list.Invites = []model.Invite{}
	}
	return list, nil
}

// RevokeInvite deletes an unused invite code and returns the backend's
// confirmation message (admin only).
func (c *Client) RevokeInvite(ctx context.Context, code string) (string, error) {
	var resp ackResponse
	if err := c.Delete(ctx, PathRevokeInvite+url.PathEscape(code), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func successOrError(path, method string, resp credentialsResponse) error {
	if resp.Success {
		return nil
	}
	msg := resp.Error
	if msg == "" {
		msg = "unknown error"
	}
	return &Error{Method: method, Path: path, StatusCode: 200, Message: msg}
}

func redirectOrRoot(redirect string) string {
	if redirect == "" {
		return "/"
	}
	return redirect
}

// Ping reports whether the backend answers at all. Any HTTP response,
// even an error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.Get(ctx, PathLogs, nil)
	if err == nil || IsAPIError(err) {
		return nil
	}
	return err
}
