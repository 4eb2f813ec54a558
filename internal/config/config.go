// Package config handles configuration for the metascrub core,
// including defaults, environment variables, JSON overlay, and
// command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Backend modes selectable via Mode.
const (
	ModeFile     = "file"
	ModePostgres = "postgres"
)

// Config holds runtime settings for the identity core.
//
// Fields:
//   - Mode: storage backend, "file" or "postgres". Left empty, it resolves
//     to postgres when DatabaseDSN is set and to file otherwise.
//   - DataDir: root directory for the file backend (users.json, audit.log,
//     backups/) and for exports.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - ResetCodeTTL: validity window for password-reset codes.
//   - ResetCodeLength: number of digits in a reset code.
//   - ReplicateBackups: when true, completed snapshots are also uploaded
//     to the configured S3-compatible backend.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	Mode             string        `env:"METASCRUB_MODE"`
	DataDir          string        `env:"METASCRUB_DATA_DIR"`
	DatabaseDSN      string        `env:"METASCRUB_DATABASE_DSN"`
	ResetCodeTTL     time.Duration `env:"METASCRUB_RESET_TTL"`
	ResetCodeLength  int           `env:"METASCRUB_RESET_CODE_LEN"`
	ReplicateBackups bool          `env:"METASCRUB_REPLICATE_BACKUPS"`
	S3RootUser       string        `env:"METASCRUB_S3_ROOT_USER"`
	S3RootPassword   string        `env:"METASCRUB_S3_ROOT_PASSWORD"`
	S3Bucket         string        `env:"METASCRUB_S3_BUCKET"`
	S3Region         string        `env:"METASCRUB_S3_REGION"`
	S3BaseEndpoint   string        `env:"METASCRUB_S3_BASE_ENDPOINT"`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: The S3 values are insecure for production and should be overridden.
// Mode is left empty so resolveMode can tell "defaulted" from "explicit".
func (c *Config) LoadDefaults() {
	c.Mode = ""
	c.DataDir = "data"
	c.DatabaseDSN = ""
	c.ResetCodeTTL = 15 * time.Minute
	c.ResetCodeLength = 6
	c.ReplicateBackups = false
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "metascrub-backups"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// resolveMode normalizes Mode and applies the convenience rule: a DSN with
// no explicit mode selects postgres, otherwise the file backend is used.
func (c *Config) resolveMode() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))

	if c.Mode == "" {
		if c.DatabaseDSN != "" {
			c.Mode = ModePostgres
		} else {
			c.Mode = ModeFile
		}
		return
	}

	if c.Mode != ModeFile && c.Mode != ModePostgres {
		panic(fmt.Sprintf("unknown mode %q (want %q or %q)", c.Mode, ModeFile, ModePostgres))
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, from an optional JSON file, and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	cfg.resolveMode()
	return cfg
}
