package model

import "fmt"

// OperationKind identifies a long-running backend task.
type OperationKind string

const (
	OperationOrganize   OperationKind = "organize"
	OperationDuplicates OperationKind = "duplicates"
)

// ParseOperationKind converts a user-supplied name into an OperationKind.
func ParseOperationKind(s string) (OperationKind, error) {
	switch OperationKind(s) {
	case OperationOrganize, OperationDuplicates:
		return OperationKind(s), nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

// Label returns a short human-readable name.
func (k OperationKind) Label() string {
	switch k {
	case OperationOrganize:
		return "Inbox organisation"
	case OperationDuplicates:
		return "Duplicate scan"
	default:
		return string(k)
	}
}

// Credentials are the mailbox credentials the backend uses to run an
// operation. Password is an app password, never the account password.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// OrganizeRequest is the body of POST /api/organizar.
type OrganizeRequest struct {
	Credentials
	DeleteFromInbox bool `json:"excluir_inbox"`
}

// ConfirmFunc asks the user a yes/no question before a destructive or
// persistent action.
type ConfirmFunc func(prompt string) bool
