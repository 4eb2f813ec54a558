// Package models defines the data records shared by the storage drivers,
// the persistence adapter, and the identity service: user accounts, audit
// entries, backup snapshots, and the import/export document.
package models

import "time"

// Role is the administrative role attached to a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a stored account record. Username is the case-sensitive primary
// key; uniqueness is enforced before any write commits. PasswordHash is an
// argon2id encoded string with parameters and salt embedded; plaintext
// passwords are never stored. FullName and Email are free-form profile
// fields.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         Role      `json:"role"`
	FullName     string    `json:"fullName,omitempty"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserUpdate is a partial update of a user record. Nil fields are left
// unchanged; the adapter bumps UpdatedAt whenever any field is applied.
type UserUpdate struct {
	PasswordHash *string
	Role         *Role
	FullName     *string
	Email        *string
}

// Empty reports whether the update carries no fields at all.
func (u UserUpdate) Empty() bool {
	return u.PasswordHash == nil && u.Role == nil && u.FullName == nil && u.Email == nil
}

// Apply merges the supplied fields into user and stamps UpdatedAt.
func (u UserUpdate) Apply(user *User, now time.Time) {
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
	if u.FullName != nil {
		user.FullName = *u.FullName
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	user.UpdatedAt = now.UTC()
}
