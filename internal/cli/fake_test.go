package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/metascrub-app/core/internal/logging"
	"github.com/metascrub-app/core/internal/models"
	"github.com/metascrub-app/core/internal/persistence"
)

// captureOutput reroutes printlnFn into a slice for assertions.
func captureOutput(t *testing.T) *[]string {
	t.Helper()

	lines := &[]string{}
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		*lines = append(*lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return lines
}

// stubInputs replaces the interactive input seams with canned answers.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()

	origST, origGP := getSimpleText, getPassword
	ti, pi := 0, 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if ti >= len(texts) {
			return "", io.EOF
		}
		s := texts[ti]
		ti++
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) (string, error) {
		if pi >= len(passwords) {
			return "", io.EOF
		}
		s := passwords[pi]
		pi++
		return s, nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func outputContains(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// fakeIdentity records calls to the identity surface.
type fakeIdentity struct {
	users   []models.User
	session *models.User
	audit   []models.AuditEntry

	calls []string

	registerErr error
	verifyErr   error
	updateErr   error
	setRoleErr  error
	deleteErr   error
	resetCode   string
	initErr     error
	completeErr error
}

func (f *fakeIdentity) Register(ctx context.Context, username, password string, role models.Role) error {
	f.calls = append(f.calls, "register "+username+" "+string(role))
	if f.registerErr != nil {
		return f.registerErr
	}
	f.users = append(f.users, models.User{Username: username, Role: role})
	return nil
}

func (f *fakeIdentity) Verify(ctx context.Context, username, password string) error {
	f.calls = append(f.calls, "verify "+username)
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.session = &models.User{Username: username, Role: models.RoleUser}
	return nil
}

func (f *fakeIdentity) Logout(ctx context.Context) {
	f.calls = append(f.calls, "logout")
	f.session = nil
}

func (f *fakeIdentity) IsLoggedIn() bool { return f.session != nil }

func (f *fakeIdentity) CurrentUsername() string {
	if f.session == nil {
		return ""
	}
	return f.session.Username
}

func (f *fakeIdentity) CurrentRole() models.Role {
	if f.session == nil {
		return ""
	}
	return f.session.Role
}

func (f *fakeIdentity) IsAdmin() bool {
	return f.session != nil && f.session.Role == models.RoleAdmin
}

func (f *fakeIdentity) CurrentUser() *models.User {
	if f.session == nil {
		return nil
	}
	u := *f.session
	return &u
}

func (f *fakeIdentity) AllUsers(ctx context.Context) ([]models.User, error) {
	f.calls = append(f.calls, "allusers")
	return f.users, nil
}

func (f *fakeIdentity) UpdateUser(ctx context.Context, username string, update models.UserUpdate) error {
	f.calls = append(f.calls, "update "+username)
	return f.updateErr
}

func (f *fakeIdentity) SetRole(ctx context.Context, username string, role models.Role) error {
	f.calls = append(f.calls, "setrole "+username+" "+string(role))
	return f.setRoleErr
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, username string) error {
	f.calls = append(f.calls, "delete "+username)
	return f.deleteErr
}

func (f *fakeIdentity) InitiateReset(ctx context.Context, username string) (string, error) {
	f.calls = append(f.calls, "initreset "+username)
	return f.resetCode, f.initErr
}

func (f *fakeIdentity) CompleteReset(ctx context.Context, username, code, newPassword string) error {
	f.calls = append(f.calls, "completereset "+username+" "+code)
	return f.completeErr
}

func (f *fakeIdentity) AuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	f.calls = append(f.calls, "auditlog")
	return f.audit, nil
}

// fakeDatastore records calls to the bulk-data surface.
type fakeDatastore struct {
	calls []string

	exportRes persistence.ExportResult
	exportErr error
	importRes persistence.ImportResult
	importErr error
	backup    models.SnapshotInfo
	backupErr error
	infos     []models.SnapshotInfo

	initErr error
	closed  bool
}

func (f *fakeDatastore) Initialize(ctx context.Context) error {
	f.calls = append(f.calls, "initialize")
	return f.initErr
}

func (f *fakeDatastore) ExportUserData(ctx context.Context, path string, opts persistence.ExportOptions) (persistence.ExportResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("export path=%q hashes=%t", path, opts.IncludePasswordHashes))
	return f.exportRes, f.exportErr
}

func (f *fakeDatastore) ImportUserData(ctx context.Context, doc *models.ExportDocument, mode persistence.ImportMode) (persistence.ImportResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("import mode=%s users=%d", mode, len(doc.Users)))
	return f.importRes, f.importErr
}

func (f *fakeDatastore) CreateBackup(ctx context.Context, operation string) (models.SnapshotInfo, error) {
	f.calls = append(f.calls, "backup "+operation)
	return f.backup, f.backupErr
}

func (f *fakeDatastore) ListBackups(ctx context.Context) ([]models.SnapshotInfo, error) {
	f.calls = append(f.calls, "backups")
	return f.infos, nil
}

func (f *fakeDatastore) Mode() string { return "file" }

func (f *fakeDatastore) Close() error {
	f.closed = true
	return nil
}

func newTestApp(ids *fakeIdentity, data *fakeDatastore) *App {
	return &App{
		ids:    ids,
		data:   data,
		log:    logging.NewJSON(io.Discard),
		reader: bufio.NewReader(strings.NewReader("")),
	}
}
