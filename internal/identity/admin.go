package identity

import (
	"context"
	"fmt"

	"github.com/metascrub-app/core/internal/models"
)

// The operations below are pass-throughs for administrative callers.
// Role-gating happens in the shell; the service records every change in
// the audit trail but does not check who asked.

// AllUsers returns the whole account collection.
func (s *Service) AllUsers(ctx context.Context) ([]models.User, error) {
	return s.store.LoadUsers(ctx)
}

// UpdateUser merges the supplied fields into an existing account.
func (s *Service) UpdateUser(ctx context.Context, username string, update models.UserUpdate) error {
	if update.Empty() {
		return nil
	}

	if err := s.store.UpdateUser(ctx, username, update); err != nil {
		return err
	}

	s.audit(ctx, models.ActionUserUpdated, username, "")
	s.refreshSession(ctx, username)
	return nil
}

// SetRole changes an account's role.
func (s *Service) SetRole(ctx context.Context, username string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	if err := s.store.UpdateUser(ctx, username, models.UserUpdate{Role: &role}); err != nil {
		return err
	}

	s.audit(ctx, models.ActionRoleChanged, username, "role="+string(role))
	s.refreshSession(ctx, username)
	return nil
}

// DeleteUser removes an account. A session referencing the deleted account
// ends with it, as does any outstanding reset ticket.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	if err := s.store.DeleteUser(ctx, username); err != nil {
		return err
	}

	delete(s.tickets, username)
	if s.session != nil && s.session.Username == username {
		s.session = nil
	}

	s.audit(ctx, models.ActionUserDeleted, username, "")
	return nil
}

// AuditLog returns the audit trail in insertion order.
func (s *Service) AuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	return s.store.ReadAuditLog(ctx)
}
