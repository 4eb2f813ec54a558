package persistence

import (
	"context"
	"fmt"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/models"
)

// CreateBackup takes an explicit snapshot of the current collection.
// An empty operation tag is recorded as "manual".
func (a *Adapter) CreateBackup(ctx context.Context, operation string) (models.SnapshotInfo, error) {
	if err := a.ensureInitialized(); err != nil {
		return models.SnapshotInfo{}, err
	}

	if operation == "" {
		operation = models.SnapshotManual
	}

	snap, err := a.takeSnapshot(ctx, operation)
	if err != nil {
		return models.SnapshotInfo{}, err
	}

	a.auditBestEffort(ctx, models.ActionBackup, "", fmt.Sprintf("operation=%s users=%d", operation, len(snap.Users)))
	return snap.Info(), nil
}

// ListBackups returns snapshot metadata, newest first.
func (a *Adapter) ListBackups(ctx context.Context) ([]models.SnapshotInfo, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return a.driver.ListSnapshots(ctx)
}

// AddAuditEntry appends one entry to the trail. Unlike the internal
// best-effort appends, the caller sees the failure here.
func (a *Adapter) AddAuditEntry(ctx context.Context, action, username, details string) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}

	entry := models.AuditEntry{
		Timestamp: a.now().UTC(),
		Action:    action,
		Username:  username,
		Details:   details,
	}

	if err := a.driver.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("%w: append audit entry: %v", common.ErrIOFailure, err)
	}
	return nil
}

// ReadAuditLog returns the audit trail in insertion order.
func (a *Adapter) ReadAuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return a.driver.ReadAudit(ctx)
}
