// Package common defines the sentinel errors shared across the storage
// drivers, the persistence adapter, and the identity service. Callers match
// them with errors.Is.
package common

import "errors"

var (
	// ErrBackendUnavailable means the storage medium (file system or
	// database connection) could not be reached. Fatal to the calling
	// operation, not to the process.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound is returned by drivers when a username has no record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when a write would violate username
	// uniqueness.
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrUsernameTaken is the registration-level duplicate outcome.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is the single failure outcome for sign-in.
	// It deliberately does not distinguish a missing account from a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidOrExpiredCode is the single failure outcome for completing
	// a password reset.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired reset code")

	// ErrIOFailure means a backup snapshot or audit append could not be
	// written. For snapshots this blocks the dependent mutation.
	ErrIOFailure = errors.New("backup or audit write failed")

	// ErrNotInitialized reports use of the persistence adapter before
	// Initialize; this is a programming-contract violation, not a runtime
	// condition.
	ErrNotInitialized = errors.New("persistence adapter not initialized")
)
