package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/models"
)

// LoadUsers returns the whole collection.
func (a *Adapter) LoadUsers(ctx context.Context) ([]models.User, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return a.driver.Load(ctx)
}

// SaveUsers replaces the whole collection. The supplied set must not
// contain duplicate usernames; a snapshot precedes the write.
func (a *Adapter) SaveUsers(ctx context.Context, users []models.User) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}

	if err := validateUnique(users); err != nil {
		return err
	}

	if _, err := a.takeSnapshot(ctx, models.SnapshotSave); err != nil {
		return err
	}

	return a.driver.Save(ctx, users)
}

// FindUser returns the user or (nil, nil) when no such account exists;
// an absent user is an ordinary outcome, not an error.
func (a *Adapter) FindUser(ctx context.Context, username string) (*models.User, error) {
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}

	user, err := a.driver.FindByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AddUser inserts a new account. Zero Created/Updated stamps are filled
// in; the username must be free.
func (a *Adapter) AddUser(ctx context.Context, user models.User) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}

	existing, err := a.FindUser(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %q", common.ErrDuplicateUsername, user.Username)
	}

	now := a.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	if _, err := a.takeSnapshot(ctx, models.SnapshotAdd); err != nil {
		return err
	}

	return a.driver.Insert(ctx, user)
}

// UpdateUser merges only the supplied fields into an existing account and
// bumps its UpdatedAt stamp. An empty update is a no-op (and takes no
// snapshot, nothing mutates).
func (a *Adapter) UpdateUser(ctx context.Context, username string, update models.UserUpdate) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}

	user, err := a.driver.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if update.Empty() {
		return nil
	}

	if _, err := a.takeSnapshot(ctx, models.SnapshotUpdate); err != nil {
		return err
	}

	update.Apply(user, a.now().UTC())
	return a.driver.Update(ctx, *user)
}

// DeleteUser removes an account; common.ErrNotFound when absent.
func (a *Adapter) DeleteUser(ctx context.Context, username string) error {
	if err := a.ensureInitialized(); err != nil {
		return err
	}

	if _, err := a.driver.FindByUsername(ctx, username); err != nil {
		return err
	}

	if _, err := a.takeSnapshot(ctx, models.SnapshotDelete); err != nil {
		return err
	}

	return a.driver.Delete(ctx, username)
}
