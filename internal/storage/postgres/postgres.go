// Package postgres implements the storage driver backed by PostgreSQL.
// The schema lives in embedded goose migrations applied on Bootstrap.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/metascrub-app/core/internal/common"
	"github.com/metascrub-app/core/internal/storage"
	"github.com/metascrub-app/core/internal/storage/postgres/migrations"
)

const uniqueViolationCode = "23505"

// Driver stores users, the audit trail, and snapshots in PostgreSQL.
type Driver struct {
	db *sql.DB
}

// Open connects to the database identified by the pgx DSN.
// Call Bootstrap before use.
func Open(dsn string) (*Driver, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return New(db), nil
}

// New wraps an existing database handle, mainly for tests.
func New(db *sql.DB) *Driver {
	return &Driver{db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Bootstrap verifies connectivity and applies the embedded migrations.
// An unreachable database reports common.ErrBackendUnavailable.
func (d *Driver) Bootstrap(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := gooseUpContext(ctx, d.db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Mode reports the backend identifier.
func (d *Driver) Mode() string {
	return storage.ModePostgres
}

// Close releases the underlying connection pool.
func (d *Driver) Close() error {
	return d.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
