// Package storage defines the contract every backend driver implements.
// Two drivers exist: the file driver (JSON document + JSONL audit log)
// and the postgres driver. The persistence adapter is written against
// this interface only and never against a concrete driver.
package storage

import (
	"context"

	"github.com/metascrub-app/core/internal/models"
)

// Backend mode identifiers returned by Driver.Mode.
const (
	ModeFile     = "file"
	ModePostgres = "postgres"
)

// Driver is the uniform surface over a user store. All methods that touch
// the backend take a context; lookups report a missing user with
// common.ErrNotFound and duplicate inserts with common.ErrDuplicateUsername
// so callers can match with errors.Is regardless of the backend.
type Driver interface {
	// Bootstrap prepares the backend: creates directories and seed files
	// for the file driver, runs migrations for postgres. It is idempotent.
	Bootstrap(ctx context.Context) error

	// Load returns every stored user.
	Load(ctx context.Context) ([]models.User, error)

	// Save replaces the whole user collection.
	Save(ctx context.Context, users []models.User) error

	// FindByUsername returns the user with the given username or
	// common.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Insert adds a new user; an existing username yields
	// common.ErrDuplicateUsername.
	Insert(ctx context.Context, user models.User) error

	// Update overwrites an existing user's record; a missing username
	// yields common.ErrNotFound.
	Update(ctx context.Context, user models.User) error

	// Delete removes a user; a missing username yields common.ErrNotFound.
	Delete(ctx context.Context, username string) error

	// AppendAudit adds one entry to the audit trail.
	AppendAudit(ctx context.Context, entry models.AuditEntry) error

	// ReadAudit returns the audit trail in append order. Entries that can
	// no longer be decoded are skipped, not fatal.
	ReadAudit(ctx context.Context) ([]models.AuditEntry, error)

	// WriteSnapshot persists a point-in-time copy of the user collection.
	WriteSnapshot(ctx context.Context, snap models.Snapshot) error

	// ListSnapshots returns metadata for the stored snapshots, newest first.
	ListSnapshots(ctx context.Context) ([]models.SnapshotInfo, error)

	// Mode reports the backend identifier, ModeFile or ModePostgres.
	Mode() string

	// Close releases backend resources. It is safe to call more than once.
	Close() error
}
