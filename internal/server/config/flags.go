package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/earsip/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":3000")
//	-g string     gRPC health bind address, empty disables it
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   session lifetime (e.g., "24h")
//	-e string     environment (development or production)
//	-l string     log level
//	-storage      attachment storage backend (database or s3)
//
// Flags owned by other components are filtered out with flagx.FilterArgs.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-e", "-l", "-storage"})

	fs := flag.NewFlagSet("earsip", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "attachment storage backend")

	return fs.Parse(args)
}
