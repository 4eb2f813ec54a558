// Package migrations contains embedded SQL migrations for the Postgres
// backend, applied with goose on Bootstrap.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
