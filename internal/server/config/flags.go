package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/filereview/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-i", "-w", "-k", "-f", "-m", "-r", "-l", "-u", "-p", "-b", "-g", "-e"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN (postgres://... or a SQLite DSN)
//	-s string   JWT HMAC secret key
//	-t int      API access token validity, minutes
//	-i int      browser session idle timeout, minutes
//	-w string   password scheme: plain | argon2id
//	-k string   blob backend: fs | s3
//	-f string   uploads directory for the fs backend
//	-m int      max upload size, megabytes
//	-r int      preview row limit
//	-l string   log level
//	-u, -p, -b, -g, -e   S3 user, password, bucket, region, base endpoint
//
// Only recognised flags are passed to the FlagSet (see flagx.FilterArgs), so
// the -c config flag does not collide with these.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	sessionIdleTimeout := fs.Int("i", int(config.SessionIdleTimeout.Minutes()), "session_idle_timeout (in minutes)")

	fs.StringVar(&config.PasswordScheme, "w", config.PasswordScheme, "password scheme (plain|argon2id)")
	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend (fs|s3)")
	fs.StringVar(&config.UploadsDir, "f", config.UploadsDir, "uploads directory")

	maxUploadSize := fs.Int64("m", config.MaxUploadSize>>20, "max upload size (in megabytes)")

	fs.IntVar(&config.PreviewMaxRows, "r", config.PreviewMaxRows, "preview row limit")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Unit conversions only for flags actually given, so sub-minute values
	// coming from the JSON file are not rounded away.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "i":
			config.SessionIdleTimeout = time.Duration(*sessionIdleTimeout) * time.Minute
		case "m":
			config.MaxUploadSize = *maxUploadSize << 20
		}
	})
}
