package models

import "time"

// Audit action names recorded by the identity service and the persistence
// adapter. Entries reference users by username only, so they survive the
// deletion of the account they mention.
const (
	ActionRegister               = "register"
	ActionLogin                  = "login"
	ActionLoginFailed            = "login_failed"
	ActionLogout                 = "logout"
	ActionUserUpdated            = "user_updated"
	ActionUserDeleted            = "user_deleted"
	ActionRoleChanged            = "role_changed"
	ActionPasswordResetRequested = "password_reset_requested"
	ActionPasswordResetCompleted = "password_reset_completed"
	ActionImport                 = "import"
	ActionExport                 = "export"
	ActionBackup                 = "backup"
)

// AuditEntry is one append-only record of an identity-affecting action.
// Entries are never mutated or deleted by the core; rotation is an operator
// concern.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Username  string    `json:"username"`
	Details   string    `json:"details,omitempty"`
}
