package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/metascrub-app/core/internal/flagx"
	"github.com/metascrub-app/core/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// All fields are pointers so that only keys present in the file overlay
// the running Config; absent keys keep the values from earlier layers.
type JsonConfig struct {
	Mode             *string         `json:"mode"`
	DataDir          *string         `json:"data_dir"`
	DatabaseDSN      *string         `json:"database_dsn"`
	ResetCodeTTL     *timex.Duration `json:"reset_code_ttl"`
	ResetCodeLength  *int            `json:"reset_code_length"`
	ReplicateBackups *bool           `json:"replicate_backups"`
	S3RootUser       *string         `json:"s3_root_user"`
	S3RootPassword   *string         `json:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         *string         `json:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Mode != nil {
		config.Mode = *c.Mode
	}
	if c.DataDir != nil {
		config.DataDir = *c.DataDir
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.ResetCodeTTL != nil {
		config.ResetCodeTTL = time.Duration(c.ResetCodeTTL.Duration)
	}
	if c.ResetCodeLength != nil {
		config.ResetCodeLength = *c.ResetCodeLength
	}
	if c.ReplicateBackups != nil {
		config.ReplicateBackups = *c.ReplicateBackups
	}
	if c.S3RootUser != nil {
		config.S3RootUser = *c.S3RootUser
	}
	if c.S3RootPassword != nil {
		config.S3RootPassword = *c.S3RootPassword
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
}
