package identity

import (
	"context"
	"fmt"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/cryptox"
	"github.com/metascrub-app/core/internal/models"
)

// Register creates a new account with a freshly hashed password. An empty
// role defaults to the regular user role.
func (s *Service) Register(ctx context.Context, username, password string, role models.Role) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	existing, err := s.store.FindUser(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %q", common.ErrUsernameTaken, username)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.store.AddUser(ctx, user); err != nil {
		return err
	}

	s.audit(ctx, models.ActionRegister, username, "role="+string(role))
	return nil
}

// Verify checks the credentials and, on success, signs the account in.
// Unknown usernames and wrong passwords both come back as
// common.ErrInvalidCredentials; an unknown username still burns a hash
// verification so response timing does not reveal which case it was.
func (s *Service) Verify(ctx context.Context, username, password string) error {
	user, err := s.store.FindUser(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		cryptox.VerifyDecoy(password)
		s.audit(ctx, models.ActionLoginFailed, username, "unknown user")
		return common.ErrInvalidCredentials
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.audit(ctx, models.ActionLoginFailed, username, "password mismatch")
		return common.ErrInvalidCredentials
	}

	s.session = user
	s.audit(ctx, models.ActionLogin, username, "")
	return nil
}

// Logout clears the session. Calling it while signed out is a no-op.
func (s *Service) Logout(ctx context.Context) {
	if s.session == nil {
		return
	}
	username := s.session.Username
	s.session = nil
	s.audit(ctx, models.ActionLogout, username, "")
}

// IsLoggedIn reports whether a session is active.
func (s *Service) IsLoggedIn() bool { return s.session != nil }

// CurrentUsername returns the signed-in username, or "" when signed out.
func (s *Service) CurrentUsername() string {
	if s.session == nil {
		return ""
	}
	return s.session.Username
}

// CurrentRole returns the signed-in account's role, or "" when signed out.
func (s *Service) CurrentRole() models.Role {
	if s.session == nil {
		return ""
	}
	return s.session.Role
}

// IsAdmin reports whether the signed-in account has the admin role.
func (s *Service) IsAdmin() bool {
	return s.session != nil && s.session.Role == models.RoleAdmin
}

// CurrentUser returns a copy of the signed-in account, or nil when
// signed out.
func (s *Service) CurrentUser() *models.User {
	if s.session == nil {
		return nil
	}
	u := *s.session
	return &u
}
