// Package cli implements the interactive operator shell for the metascrub
// identity core: a line-oriented REPL over the identity service and the
// persistence layer.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/metascrub-app/core/internal/config"
	"github.com/metascrub-app/core/internal/identity"
	"github.com/metascrub-app/core/internal/logging"
	"github.com/metascrub-app/core/internal/models"
	"github.com/metascrub-app/core/internal/persistence"
	"github.com/metascrub-app/core/internal/replication"
	"github.com/metascrub-app/core/internal/storage"
	"github.com/metascrub-app/core/internal/storage/file"
	"github.com/metascrub-app/core/internal/storage/postgres"
)

// Identity is the account surface the shell drives. Implemented by
// *identity.Service; tests use a stub.
type Identity interface {
	Register(ctx context.Context, username, password string, role models.Role) error
	Verify(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
	IsLoggedIn() bool
	CurrentUsername() string
	CurrentRole() models.Role
	IsAdmin() bool
	CurrentUser() *models.User
	AllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, username string, update models.UserUpdate) error
	SetRole(ctx context.Context, username string, role models.Role) error
	DeleteUser(ctx context.Context, username string) error
	InitiateReset(ctx context.Context, username string) (string, error)
	CompleteReset(ctx context.Context, username, code, newPassword string) error
	AuditLog(ctx context.Context) ([]models.AuditEntry, error)
}

// Datastore is the bulk-data surface of the persistence layer used by the
// export, import, and backup commands. Implemented by *persistence.Adapter.
type Datastore interface {
	Initialize(ctx context.Context) error
	ExportUserData(ctx context.Context, path string, opts persistence.ExportOptions) (persistence.ExportResult, error)
	ImportUserData(ctx context.Context, doc *models.ExportDocument, mode persistence.ImportMode) (persistence.ImportResult, error)
	CreateBackup(ctx context.Context, operation string) (models.SnapshotInfo, error)
	ListBackups(ctx context.Context) ([]models.SnapshotInfo, error)
	Mode() string
	Close() error
}

// App is the interactive shell. It owns the input reader and dispatches
// commands to the identity service and the datastore.
type App struct {
	config *config.Config
	ids    Identity
	data   Datastore
	log    logging.Logger
	reader *bufio.Reader
}

// NewApp builds the full stack for cfg: the storage driver selected by
// Mode, optional snapshot replication, the persistence adapter, and the
// identity service on top.
func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewJSON(os.Stderr)

	var (
		driver storage.Driver
		err    error
	)
	switch cfg.Mode {
	case config.ModeFile:
		driver = file.New(cfg.DataDir)
	case config.ModePostgres:
		driver, err = postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	var replicator persistence.SnapshotReplicator
	if cfg.ReplicateBackups {
		replicator = replication.New(cfg)
	}

	adapter := persistence.NewAdapter(driver, cfg.DataDir, log, replicator)
	ids := identity.NewService(adapter, log, cfg)

	return &App{
		config: cfg,
		ids:    ids,
		data:   adapter,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run bootstraps the backend and drives the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	if err := a.data.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.data.Close(); err != nil {
			a.log.Warn(ctx, "close datastore", "error", err)
		}
	}()

	printlnFn(fmt.Sprintf("MetaScrub identity shell, %s backend (type 'help' for commands)", a.data.Mode()))
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) status() string {
	if !a.ids.IsLoggedIn() {
		return ""
	}
	s := a.ids.CurrentUsername()
	if role := a.ids.CurrentRole(); role != "" {
		s += " " + string(role)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) isLoggedIn() bool { return a.ids.IsLoggedIn() }

func (a *App) isAdmin() bool { return a.ids.IsAdmin() }
