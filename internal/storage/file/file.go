// Package file implements the storage driver backed by a JSON document
// on disk: users.json for the collection, audit.log (JSONL) for the
// audit trail, and backups/ for snapshots.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/filex"
	"github.com/metascrub-app/core/internal/models"
	"github.com/metascrub-app/core/internal/storage"
)

const (
	usersFile  = "users.json"
	auditFile  = "audit.log"
	backupsDir = "backups"

	filePerm = 0o660
)

// Driver stores the user collection as a single JSON array rewritten
// atomically on every change. It assumes a single writer; the adapter
// above it serializes access.
type Driver struct {
	dataDir string
}

// New returns a file driver rooted at dataDir. Call Bootstrap before use.
func New(dataDir string) *Driver {
	return &Driver{dataDir: dataDir}
}

// Bootstrap creates the data directory tree and seeds an empty users.json
// when none exists yet. Calling it again is a no-op.
func (d *Driver) Bootstrap(ctx context.Context) error {
	if _, err := filex.EnsureDir(d.dataDir); err != nil {
		return fmt.Errorf("%w: ensure data dir: %v", common.ErrBackendUnavailable, err)
	}
	if _, err := filex.EnsureDir(d.dataDir, backupsDir); err != nil {
		return fmt.Errorf("%w: ensure backups dir: %v", common.ErrBackendUnavailable, err)
	}

	if _, err := os.Stat(d.usersPath()); errors.Is(err, fs.ErrNotExist) {
		if err := filex.WriteFileAtomic(d.usersPath(), []byte("[]\n"), filePerm); err != nil {
			return fmt.Errorf("%w: seed users file: %v", common.ErrBackendUnavailable, err)
		}
	} else if err != nil {
		return fmt.Errorf("%w: stat users file: %v", common.ErrBackendUnavailable, err)
	}

	return nil
}

func (d *Driver) usersPath() string {
	return filepath.Join(d.dataDir, usersFile)
}

// Load reads the whole collection. A missing users.json is an empty
// collection, not an error.
func (d *Driver) Load(ctx context.Context) ([]models.User, error) {
	data, err := os.ReadFile(d.usersPath())
	if errors.Is(err, fs.ErrNotExist) {
		return []models.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read users file: %v", common.ErrBackendUnavailable, err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}

	return users, nil
}

// Save replaces the whole collection, writing through a temp file so a
// crash mid-write never leaves a truncated document.
func (d *Driver) Save(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	if err := filex.WriteFileAtomic(d.usersPath(), append(data, '\n'), filePerm); err != nil {
		return fmt.Errorf("%w: write users file: %v", common.ErrBackendUnavailable, err)
	}

	return nil
}

// FindByUsername returns the matching user or common.ErrNotFound.
func (d *Driver) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u, nil
		}
	}

	return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, username)
}

// Insert adds a user; common.ErrDuplicateUsername when the name is taken.
func (d *Driver) Insert(ctx context.Context, user models.User) error {
	users, err := d.Load(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Username == user.Username {
			return fmt.Errorf("%w: %q", common.ErrDuplicateUsername, user.Username)
		}
	}

	return d.Save(ctx, append(users, user))
}

// Update overwrites the record with the same username;
// common.ErrNotFound when no such user exists.
func (d *Driver) Update(ctx context.Context, user models.User) error {
	users, err := d.Load(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Username == user.Username {
			users[i] = user
			return d.Save(ctx, users)
		}
	}

	return fmt.Errorf("%w: user %q", common.ErrNotFound, user.Username)
}

// Delete removes the record; common.ErrNotFound when no such user exists.
func (d *Driver) Delete(ctx context.Context, username string) error {
	users, err := d.Load(ctx)
	if err != nil {
		return err
	}

	kept := users[:0]
	found := false
	for i := range users {
		if users[i].Username == username {
			found = true
			continue
		}
		kept = append(kept, users[i])
	}

	if !found {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}

	return d.Save(ctx, kept)
}

// Mode reports the backend identifier.
func (d *Driver) Mode() string {
	return storage.ModeFile
}

// Close is a no-op for the file driver.
func (d *Driver) Close() error {
	return nil
}
