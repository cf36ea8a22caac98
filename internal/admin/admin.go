// Package admin manages invite codes (admin accounts only).
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nhle/mailnest/internal/model"
)

// ErrInviteUsed is returned when revoking a code that was already used.
var ErrInviteUsed = errors.New("invite code was already used")

// Badges shown in the status column.
const (
	BadgeUsed      = "✓ Used"
	BadgeAvailable = "○ Available"
	emptyCell      = "-"
)

// Backend is the part of the API client used for invites.
type Backend interface {
	GenerateInvite(ctx context.Context) (string, error)
	ListInvites(ctx context.Context) (model.InviteList, error)
	RevokeInvite(ctx context.Context, code string) (string, error)
}

// Service performs invite actions.
type Service struct {
	backend Backend
	log     zerolog.Logger
}

// New creates a Service.
func New(b Backend, log zerolog.Logger) *Service {
	return &Service{backend: b, log: log}
}

// Generate creates a new invite code.
func (s *Service) Generate(ctx context.Context) (string, error) {
	code, err := s.backend.GenerateInvite(ctx)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("code", code).Msg("invite generated")
	return code, nil
}

// List returns the invite statistics and rows.
func (s *Service) List(ctx context.Context) (model.InviteList, error) {
	return s.backend.ListInvites(ctx)
}

// RevokePrompt is the confirmation asked before revoking code.
func RevokePrompt(code string) string {
	return fmt.Sprintf("Are you sure you want to revoke code %s?\n\nIt will no longer be usable.", code)
}

// Revoke deletes an unused invite once confirm agrees. inv is the row
// being revoked; used codes are refused without asking. It returns the
// backend's confirmation message, or "" when the user declined.
func (s *Service) Revoke(ctx context.Context, inv model.Invite, confirm model.ConfirmFunc) (string, error) {
	if inv.Used {
		return "", fmt.Errorf("revoking %s: %w", inv.Code, ErrInviteUsed)
	}
	if confirm == nil || !confirm(RevokePrompt(inv.Code)) {
		return "", nil
	}

	msg, err := s.backend.RevokeInvite(ctx, inv.Code)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("code", inv.Code).Msg("invite revoked")
	return msg, nil
}

// Find returns the row for code (case-insensitive).
func Find(list model.InviteList, code string) (model.Invite, bool) {
	for _, inv := range list.Invites {
		if strings.EqualFold(inv.Code, code) {
			return inv, true
		}
	}
	return model.Invite{}, false
}

// Badge returns the status badge for inv.
func Badge(inv model.Invite) string {
	if inv.Used {
		return BadgeUsed
	}
	return BadgeAvailable
}

// Columns are the table headers matching Row.
var Columns = []string{"Code", "Created by", "Created at", "Status", "Used by", "Used at"}

// Row renders inv as table cells, with "-" for missing values.
func Row(inv model.Invite) []string {
	return []string{
		inv.Code,
		orDash(inv.CreatedBy),
		orDash(inv.CreatedAt),
		Badge(inv),
		orDash(inv.UsedBy),
		orDash(inv.UsedAt),
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyCell
	}
	return s
}
