package identity

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/config"
	"github.com/metascrub-app/core/internal/logging"
	"github.com/metascrub-app/core/internal/models"
)

// fakeStore is an in-memory Store with per-call error taps, mirroring the
// adapter's contract: FindUser returns (nil, nil) for absent accounts.
type fakeStore struct {
	users map[string]models.User
	order []string
	audit []models.AuditEntry

	findErr   error
	addErr    error
	updateErr error
	deleteErr error
	auditErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]models.User)}
}

func (f *fakeStore) FindUser(ctx context.Context, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeStore) AddUser(ctx context.Context, user models.User) error {
	if f.addErr != nil {
		return f.addErr
	}
	if _, ok := f.users[user.Username]; ok {
		return fmt.Errorf("%w: %q", common.ErrDuplicateUsername, user.Username)
	}
	f.users[user.Username] = user
	f.order = append(f.order, user.Username)
	return nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, username string, update models.UserUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[username]
	if !ok {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}
	update.Apply(&u, time.Now().UTC())
	f.users[username] = u
	return nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, username string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[username]; !ok {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}
	delete(f.users, username)
	for i, name := range f.order {
		if name == username {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.users[name])
	}
	return out, nil
}

func (f *fakeStore) AddAuditEntry(ctx context.Context, action, username, details string) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.audit = append(f.audit, models.AuditEntry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Username:  username,
		Details:   details,
	})
	return nil
}

func (f *fakeStore) ReadAuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	out := make([]models.AuditEntry, len(f.audit))
	copy(out, f.audit)
	return out, nil
}

// actions returns the recorded audit action names in order.
func (f *fakeStore) actions() []string {
	out := make([]string, 0, len(f.audit))
	for _, e := range f.audit {
		out = append(out, e.Action)
	}
	return out
}

// quietLogger satisfies logging.Logger and records warnings.
type quietLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *quietLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *quietLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (l *quietLogger) Error(ctx context.Context, msg string, args ...any) {}

func (l *quietLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *quietLogger) With(args ...any) logging.Logger { return l }

func newTestService(t *testing.T, store Store) (*Service, *quietLogger) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	log := &quietLogger{}
	return NewService(store, log, cfg), log
}
