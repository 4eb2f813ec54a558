package persistence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/logging"
	"github.com/metascrub-app/core/internal/models"
	"github.com/metascrub-app/core/internal/storage"
)

// fakeDriver is an in-memory storage.Driver with per-call error taps.
type fakeDriver struct {
	users     []models.User
	audit     []models.AuditEntry
	snapshots []models.Snapshot

	bootstrapErr error
	loadErr      error
	saveErr      error
	snapshotErr  error
	auditErr     error

	bootstrapCalls int
}

func (f *fakeDriver) Bootstrap(ctx context.Context) error {
	f.bootstrapCalls++
	return f.bootstrapErr
}

func (f *fakeDriver) Load(ctx context.Context) ([]models.User, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]models.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeDriver) Save(ctx context.Context, users []models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.users = make([]models.User, len(users))
	copy(f.users, users)
	return nil
}

func (f *fakeDriver) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, username)
}

func (f *fakeDriver) Insert(ctx context.Context, user models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.users {
		if f.users[i].Username == user.Username {
			return fmt.Errorf("%w: %q", common.ErrDuplicateUsername, user.Username)
		}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeDriver) Update(ctx context.Context, user models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.users {
		if f.users[i].Username == user.Username {
			f.users[i] = user
			return nil
		}
	}
	return fmt.Errorf("%w: user %q", common.ErrNotFound, user.Username)
}

func (f *fakeDriver) Delete(ctx context.Context, username string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.users {
		if f.users[i].Username == username {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
}

func (f *fakeDriver) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.audit = append(f.audit, entry)
	return nil
}

func (f *fakeDriver) ReadAudit(ctx context.Context) ([]models.AuditEntry, error) {
	out := make([]models.AuditEntry, len(f.audit))
	copy(out, f.audit)
	return out, nil
}

func (f *fakeDriver) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	if f.snapshotErr != nil {
		return f.snapshotErr
	}
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakeDriver) ListSnapshots(ctx context.Context) ([]models.SnapshotInfo, error) {
	infos := make([]models.SnapshotInfo, 0, len(f.snapshots))
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		infos = append(infos, f.snapshots[i].Info())
	}
	return infos, nil
}

func (f *fakeDriver) Mode() string { return storage.ModeFile }

func (f *fakeDriver) Close() error { return nil }

// captureLogger records warnings so best-effort paths can be asserted.
type captureLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *captureLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *captureLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (l *captureLogger) Error(ctx context.Context, msg string, args ...any) {}

func (l *captureLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *captureLogger) With(args ...any) logging.Logger { return l }

func (l *captureLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.warns))
	copy(out, l.warns)
	return out
}

// fakeReplicator records uploads and can fail on demand.
type fakeReplicator struct {
	uploads []models.Snapshot
	err     error
}

func (r *fakeReplicator) Upload(ctx context.Context, snap models.Snapshot) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.uploads = append(r.uploads, snap)
	return "snapshots/test/" + snap.ID, nil
}

func newTestAdapter(t *testing.T, driver storage.Driver, replicator SnapshotReplicator) (*Adapter, *captureLogger) {
	t.Helper()

	log := &captureLogger{}
	a := NewAdapter(driver, t.TempDir(), log, replicator)

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	a.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	seq := 0
	a.newID = func() string {
		seq++
		return fmt.Sprintf("00000000-0000-0000-0000-%012d", seq)
	}

	return a, log
}

func mustInit(t *testing.T, a *Adapter) {
	t.Helper()
	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
}

func namedUser(username string) models.User {
	created := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return models.User{
		Username:     username,
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         models.RoleUser,
		FullName:     "Named User",
		Email:        username + "@example.com",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}
