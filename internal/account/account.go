// Package account handles login, registration and the mailbox
// credentials saved on the backend.
package account

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/validate"
)

// Confirmation prompts.
const (
	SaveGmailPrompt   = "💾 Save these credentials for future use?\n\nYou will not need to type them again."
	RemoveGmailPrompt = "🗑️ Remove the saved credentials?"
	LogoutPrompt      = "Do you really want to log out?"
)

// Backend is the part of the API client used for account actions.
type Backend interface {
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	GmailCredentials(ctx context.Context) (model.GmailCredentials, error)
	SaveGmailCredentials(ctx context.Context, creds model.GmailCredentials) error
	DeleteGmailCredentials(ctx context.Context) error
	BaseURL() *url.URL
	Cookies() []*http.Cookie
	SetCookies(cookies []*http.Cookie)
}

// SessionStore persists the backend session between runs.
type SessionStore interface {
	SaveSession(baseURL string, cookies []*http.Cookie) error
	LoadSession(baseURL string, now time.Time) ([]*http.Cookie, error)
	ClearSession(baseURL string) error
}

// Service performs account actions. Every input is validated before
// anything is sent.
type Service struct {
	backend  Backend
	sessions SessionStore
	log      zerolog.Logger
	now      func() time.Time
}

// New creates a Service. sessions may be nil, in which case the session
// only lives as long as the process.
func New(b Backend, sessions SessionStore, log zerolog.Logger) *Service {
	return &Service{
		backend:  b,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// LoginInput is what the login form collects. Type selects which of the
// other fields are used.
type LoginInput struct {
	Type       string
	Username   string
	Password   string
	InviteCode string
}

type credentialsLogin struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type inviteLogin struct {
	InviteCode string `validate:"required"`
}

var loginMessages = validate.Messages{
	"Username.required":   "Enter your username and password",
	"Password.required":   "Enter your username and password",
	"InviteCode.required": "Enter the invite code",
}

// Restore loads a previously saved session into the backend client. It
// reports whether one was found.
func (s *Service) Restore() (bool, error) {
	if s.sessions == nil {
		return false, nil
	}

	cookies, err := s.sessions.LoadSession(s.baseURL(), s.now())
	if err != nil {
		return false, fmt.Errorf("restoring session: %w", err)
	}
	if len(cookies) == 0 {
		return false, nil
	}

	s.backend.SetCookies(cookies)
	return true, nil
}

// Login authenticates against the backend and saves the session. It
// returns the page the backend redirects to.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	var req model.LoginRequest

	switch in.Type {
	case model.LoginTypeInvite:
		v := inviteLogin{InviteCode: strings.ToUpper(strings.TrimSpace(in.InviteCode))}
		if err := validate.Struct(v, loginMessages); err != nil {
			return "", err
		}
		req = model.LoginRequest{LoginType: model.LoginTypeInvite, InviteCode: v.InviteCode}

	case model.LoginTypeCredentials, "":
		v := credentialsLogin{Username: strings.TrimSpace(in.Username), Password: in.Password}
		if err := validate.Struct(v, loginMessages); err != nil {
			return "", err
		}
		req = model.LoginRequest{
			LoginType: model.LoginTypeCredentials,
			Username:  v.Username,
			Password:  v.Password,
		}

	default:
		return "", &validate.Error{Field: "Type", Tag: "oneof", Message: fmt.Sprintf("unknown login type %q", in.Type)}
	}

	redirect, err := s.backend.Login(ctx, req)
	if err != nil {
		return "", err
	}

	s.saveSession()
	s.log.Info().Str("login_type", req.LoginType).Msg("logged in")
	return redirect, nil
}

// RegisterInput is what the registration form collects.
type RegisterInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,mailaddr"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	InviteCode      string
}

var registerMessages = validate.Messages{
	"required":                "Fill in every field",
	"Password.min":            "The password must have at least 6 characters",
	"ConfirmPassword.eqfield": "The passwords do not match",
	"Email.mailaddr":          "Enter a valid e-mail address",
}

// Register creates an account. The checks run in the order the form
// shows them: missing fields, password length, confirmation, e-mail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := validate.Struct(in, registerMessages); err != nil {
		return "", err
	}

	redirect, err := s.backend.Register(ctx, model.RegisterRequest{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		InviteCode: in.InviteCode,
	})
	if err != nil {
		return "", err
	}

	s.saveSession()
	s.log.Info().Msg("account registered")
	return redirect, nil
}

// Logout ends the backend session and forgets the saved one. The local
// session is dropped even when the backend cannot be reached.
func (s *Service) Logout(ctx context.Context) error {
	err := s.backend.Logout(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("backend logout failed")
	}

	s.backend.SetCookies(expired(s.backend.Cookies()))
	if s.sessions != nil {
		if cErr := s.sessions.ClearSession(s.baseURL()); cErr != nil {
			return cErr
		}
	}
	return err
}

// LoadGmail returns the saved mailbox credentials. A zero value means
// nothing is saved.
func (s *Service) LoadGmail(ctx context.Context) (model.GmailCredentials, error) {
	return s.backend.GmailCredentials(ctx)
}

type gmailInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var gmailMessages = validate.Messages{
	"required": "⚠️ Fill in the e-mail and the password before saving!",
}

// ValidateGmail checks that both mailbox fields are filled in.
func ValidateGmail(creds model.Credentials) error {
	return validate.Struct(gmailInput(creds), gmailMessages)
}

// SaveGmail stores mailbox credentials on the backend once confirm
// agrees. It reports whether they were saved.
func (s *Service) SaveGmail(ctx context.Context, creds model.Credentials, confirm model.ConfirmFunc) (bool, error) {
	if err := ValidateGmail(creds); err != nil {
		return false, err
	}
	if confirm == nil || !confirm(SaveGmailPrompt) {
		return false, nil
	}

	err := s.backend.SaveGmailCredentials(ctx, model.GmailCredentials{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveGmail deletes the saved mailbox credentials once confirm agrees.
func (s *Service) RemoveGmail(ctx context.Context, confirm model.ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(RemoveGmailPrompt) {
		return false, nil
	}
	if err := s.backend.DeleteGmailCredentials(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) baseURL() string {
	return s.backend.BaseURL().String()
}

func (s *Service) saveSession() {
	if s.sessions == nil {
		return
	}
	cookies := s.backend.Cookies()
	if len(cookies) == 0 {
		return
	}
	if err := s.sessions.SaveSession(s.baseURL(), cookies); err != nil {
		s.log.Warn().Err(err).Msg("saving session")
	}
}

// expired returns deletion cookies for every cookie in cs.
func expired(cs []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cs))
	for _, c := range cs {
		out = append(out, &http.Cookie{Name: c.Name, Path: "/", MaxAge: -1})
	}
	return out
}
