// Package persistence orchestrates everything between the callers and a
// storage driver: initialization, uniqueness validation, the
// snapshot-before-write rule, audit appends, and bulk export/import.
// It is written against storage.Driver only and never inspects which
// backend is active.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/logging"
	"github.com/metascrub-app/core/internal/models"
	"github.com/metascrub-app/core/internal/storage"
)

// SnapshotReplicator ships a committed snapshot off-site. Implemented by
// replication.Replicator; nil disables replication.
type SnapshotReplicator interface {
	Upload(ctx context.Context, snap models.Snapshot) (string, error)
}

// Adapter owns the active driver. It assumes a single caller at a time
// (desktop-style lifecycle); no internal locking.
type Adapter struct {
	driver      storage.Driver
	log         logging.Logger
	replicator  SnapshotReplicator
	dataDir     string
	initialized bool

	// seams for tests
	now   func() time.Time
	newID func() string
}

// NewAdapter wires an adapter to the given driver. dataDir is used for
// default export locations; replicator may be nil.
func NewAdapter(driver storage.Driver, dataDir string, log logging.Logger, replicator SnapshotReplicator) *Adapter {
	return &Adapter{
		driver:     driver,
		log:        log,
		replicator: replicator,
		dataDir:    dataDir,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Initialize bootstraps the backend. It must be called before any data
// operation; calling it again is a no-op.
func (a *Adapter) Initialize(ctx context.Context) error {
	if a.initialized {
		return nil
	}

	if err := a.driver.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap %s backend: %w", a.driver.Mode(), err)
	}

	a.initialized = true
	a.log.Info(ctx, "storage initialized", "mode", a.driver.Mode())
	return nil
}

func (a *Adapter) ensureInitialized() error {
	if !a.initialized {
		return common.ErrNotInitialized
	}
	return nil
}

// Mode reports the active backend identifier.
func (a *Adapter) Mode() string {
	return a.driver.Mode()
}

// Close releases the driver's resources.
func (a *Adapter) Close() error {
	return a.driver.Close()
}

// takeSnapshot captures the pre-mutation state of the collection. Every
// mutating operation calls it first; a failure here blocks the mutation
// with common.ErrIOFailure.
func (a *Adapter) takeSnapshot(ctx context.Context, operation string) (models.Snapshot, error) {
	users, err := a.driver.Load(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: load state for snapshot: %v", common.ErrIOFailure, err)
	}

	snap := models.Snapshot{
		ID:        a.newID(),
		Operation: operation,
		TakenAt:   a.now().UTC(),
		Users:     users,
	}

	if err := a.driver.WriteSnapshot(ctx, snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: write snapshot: %v", common.ErrIOFailure, err)
	}

	a.replicate(ctx, snap)
	return snap, nil
}

// replicate hands a committed snapshot to the replicator. Best-effort:
// the local copy is authoritative, failures only warn.
func (a *Adapter) replicate(ctx context.Context, snap models.Snapshot) {
	if a.replicator == nil {
		return
	}

	key, err := a.replicator.Upload(ctx, snap)
	if err != nil {
		a.log.Warn(ctx, "snapshot replication failed", "snapshot", snap.ID, "error", err)
		return
	}
	a.log.Debug(ctx, "snapshot replicated", "snapshot", snap.ID, "key", key)
}

// auditBestEffort appends an audit entry for an internal operation.
// Audit durability never rolls back a data change; failures only warn.
func (a *Adapter) auditBestEffort(ctx context.Context, action, username, details string) {
	entry := models.AuditEntry{
		Timestamp: a.now().UTC(),
		Action:    action,
		Username:  username,
		Details:   details,
	}
	if err := a.driver.AppendAudit(ctx, entry); err != nil {
		a.log.Warn(ctx, "audit append failed", "action", action, "user", username, "error", err)
	}
}

func validateUnique(users []models.User) error {
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, ok := seen[u.Username]; ok {
			return fmt.Errorf("%w: %q", common.ErrDuplicateUsername, u.Username)
		}
		seen[u.Username] = struct{}{}
	}
	return nil
}
