// Package identity implements account management on top of the persistence
// layer: registration, credential verification, the in-process session,
// role administration, and the password-reset flow.
package identity

import (
	"context"
	"time"

	"github.com/metascrub-app/core/internal/config"
	"github.com/metascrub-app/core/internal/logging"
	"github.com/metascrub-app/core/internal/models"
)

// Fallbacks for a config that never went through LoadDefaults.
const (
	defaultResetTTL     = 15 * time.Minute
	defaultResetCodeLen = 6
)

// Store is the slice of the persistence layer the identity service needs.
// Implemented by *persistence.Adapter.
type Store interface {
	FindUser(ctx context.Context, username string) (*models.User, error)
	AddUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, username string, update models.UserUpdate) error
	DeleteUser(ctx context.Context, username string) error
	LoadUsers(ctx context.Context) ([]models.User, error)
	AddAuditEntry(ctx context.Context, action, username, details string) error
	ReadAuditLog(ctx context.Context) ([]models.AuditEntry, error)
}

type resetTicket struct {
	code     string
	issuedAt time.Time
}

// Service provides authentication and account administration:
//   - Register / Verify / Logout: credential lifecycle and the session
//   - AllUsers / UpdateUser / SetRole / DeleteUser: administration
//   - InitiateReset / CompleteReset: two-step password recovery
//
// One Service instance serves one interactive shell at a time. The session
// and the ticket table are plain fields; callers must not share a Service
// across goroutines.
type Service struct {
	store Store
	log   logging.Logger

	resetTTL     time.Duration
	resetCodeLen int

	session *models.User
	tickets map[string]resetTicket

	now func() time.Time
}

// NewService constructs a Service over the given store using the reset
// parameters from cfg.
func NewService(store Store, log logging.Logger, cfg *config.Config) *Service {
	ttl := cfg.ResetCodeTTL
	if ttl <= 0 {
		ttl = defaultResetTTL
	}
	codeLen := cfg.ResetCodeLength
	if codeLen <= 0 {
		codeLen = defaultResetCodeLen
	}

	return &Service{
		store:        store,
		log:          log,
		resetTTL:     ttl,
		resetCodeLen: codeLen,
		tickets:      make(map[string]resetTicket),
		now:          time.Now,
	}
}

// audit appends a trail entry for a completed account action. The data
// change already committed, so a failed append only warns.
func (s *Service) audit(ctx context.Context, action, username, details string) {
	if err := s.store.AddAuditEntry(ctx, action, username, details); err != nil {
		s.log.Warn(ctx, "audit append failed", "action", action, "user", username, "error", err)
	}
}

// refreshSession reloads the session copy after username's record changed,
// so role and profile queries reflect the stored state.
func (s *Service) refreshSession(ctx context.Context, username string) {
	if s.session == nil || s.session.Username != username {
		return
	}
	user, err := s.store.FindUser(ctx, username)
	if err != nil || user == nil {
		return
	}
	s.session = user
}
