package identity

import (
	"context"
	"fmt"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/cryptox"
	"github.com/metascrub-app/core/internal/models"
)

// InitiateReset issues a numeric reset code for username and returns it so
// the shell can deliver it out of band. At most one ticket per username is
// outstanding; a repeat request replaces the old one. Unknown usernames
// return ("", nil) so the call cannot be used to probe for accounts.
func (s *Service) InitiateReset(ctx context.Context, username string) (string, error) {
	user, err := s.store.FindUser(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	code, err := cryptox.NumericCode(s.resetCodeLen)
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}

	s.tickets[username] = resetTicket{code: code, issuedAt: s.now()}
	s.audit(ctx, models.ActionPasswordResetRequested, username, "")
	return code, nil
}

// CompleteReset installs newPassword when an unexpired ticket for username
// carries exactly this code. Missing, expired, and mismatched tickets all
// fail with common.ErrInvalidOrExpiredCode; the ticket is consumed only on
// success, except that an expired ticket is dropped as soon as it is seen.
func (s *Service) CompleteReset(ctx context.Context, username, code, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}

	ticket, ok := s.tickets[username]
	if !ok {
		return common.ErrInvalidOrExpiredCode
	}
	if s.now().Sub(ticket.issuedAt) > s.resetTTL {
		delete(s.tickets, username)
		return common.ErrInvalidOrExpiredCode
	}
	if !cryptox.EqualConstantTime(code, ticket.code) {
		return common.ErrInvalidOrExpiredCode
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdateUser(ctx, username, models.UserUpdate{PasswordHash: &hash}); err != nil {
		return err
	}

	delete(s.tickets, username)
	s.audit(ctx, models.ActionPasswordResetCompleted, username, "")
	s.refreshSession(ctx, username)
	return nil
}
