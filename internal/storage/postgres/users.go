package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/dbx"
	"github.com/metascrub-app/core/internal/models"
)

// Load returns every stored user in registration order.
func (d *Driver) Load(ctx context.Context) ([]models.User, error) {
	query :=
		`SELECT username, password_hash, role, full_name, email, created_at, updated_at
		 FROM users
		 ORDER BY created_at, username
		 `

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

// Save replaces the whole collection inside one transaction.
func (d *Driver) Save(ctx context.Context, users []models.User) error {
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		for _, u := range users {
			if err := insertUser(ctx, tx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByUsername returns the matching user or common.ErrNotFound.
func (d *Driver) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, password_hash, role, full_name, email, created_at, updated_at
		 FROM users
		 WHERE username = $1
		 `

	u := &models.User{}
	err := d.db.QueryRowContext(ctx, query, username).
		Scan(&u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.Email, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, username)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

// Insert adds a user; common.ErrDuplicateUsername when the name is taken.
func (d *Driver) Insert(ctx context.Context, user models.User) error {
	return insertUser(ctx, d.db, user)
}

func insertUser(ctx context.Context, db dbx.DBTX, user models.User) error {
	query :=
		`INSERT INTO users (username, password_hash, role, full_name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, string(user.Role), user.FullName, user.Email, user.CreatedAt, user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", common.ErrDuplicateUsername, user.Username)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Update overwrites the record with the same username;
// common.ErrNotFound when no such user exists.
func (d *Driver) Update(ctx context.Context, user models.User) error {
	query :=
		`UPDATE users
		 SET password_hash = $2, role = $3, full_name = $4, email = $5, created_at = $6, updated_at = $7
		 WHERE username = $1
		 `

	res, err := d.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, string(user.Role), user.FullName, user.Email, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, user.Username)
	}

	return nil
}

// Delete removes the record; common.ErrNotFound when no such user exists.
func (d *Driver) Delete(ctx context.Context, username string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %q", common.ErrNotFound, username)
	}

	return nil
}
