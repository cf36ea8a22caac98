package model

// Login types accepted by POST /login.
const (
	LoginTypeCredentials = "credentials"
	LoginTypeInvite      = "invite"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	LoginType  string `json:"login_type"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	InviteCode string `json:"invite_code,omitempty"`
}

// RegisterRequest is the body of POST /registrar.
type RegisterRequest struct {
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Password   string `json:"senha"`
	InviteCode string `json:"invite_code"`
}

// GmailCredentials are the mailbox credentials saved on the backend for
// the logged-in user.
type GmailCredentials struct {
	Email       string `json:"gmail_email"`
	Password    string `json:"gmail_password,omitempty"`
	HasPassword bool   `json:"has_password,omitempty"`
}
