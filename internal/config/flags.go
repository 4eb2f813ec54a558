package config

import (
	"flag"
	"os"
	"time"

	"github.com/metascrub-app/core/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-m string   storage mode: "file" or "postgres"
//	-d string   data directory for the file backend and exports
//	-p string   PostgreSQL DSN
//	-t int      reset code validity, minutes
//	-l int      reset code length, digits
//	-r          replicate snapshots to the S3 backend
//	-u string   S3 root user
//	-w string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The TTL flag is accepted as an integer in minutes and then converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-m", "-d", "-p", "-t", "-l", "-r", "-u", "-w", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Mode, "m", config.Mode, "storage mode: file or postgres")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.DatabaseDSN, "p", config.DatabaseDSN, "database DSN")

	resetCodeTTL := fs.Int("t", int(config.ResetCodeTTL.Minutes()), "reset code validity (in minutes)")

	fs.IntVar(&config.ResetCodeLength, "l", config.ResetCodeLength, "reset code length (digits)")
	fs.BoolVar(&config.ReplicateBackups, "r", config.ReplicateBackups, "replicate snapshots to S3")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "w", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Convert minutes only when -t was actually passed, so a sub-minute
	// TTL from an earlier layer is not truncated by the round-trip.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.ResetCodeTTL = time.Duration(*resetCodeTTL) * time.Minute
		}
	})
}
