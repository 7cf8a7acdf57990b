// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the file review server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP server.
//   - DatabaseDSN: "postgres://..." selects PostgreSQL (pgx), anything else is
//     treated as a SQLite (modernc) DSN.
//   - SecretKey: HMAC secret for API access tokens (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: API token lifetime.
//   - SessionIdleTimeout: browser session expiry.
//   - PasswordScheme: "plain" (stored as entered) or "argon2id".
//   - BlobBackend: "fs" stores uploads under UploadsDir, "s3" in S3Bucket.
//   - MaxUploadSize: upper bound for one upload, in bytes.
//   - PreviewMaxRows: rows rendered by a preview before truncation.
type Config struct {
	EndpointAddr                string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	SessionIdleTimeout          time.Duration
	PasswordScheme              string
	BlobBackend                 string
	UploadsDir                  string
	MaxUploadSize               int64
	PreviewMaxRows              int
	LogLevel                    string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file next to an uploads/ directory, the way a single-box install runs.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = "file:users.db?_pragma=foreign_keys(1)"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.SessionIdleTimeout = 30 * time.Minute
	c.PasswordScheme = "plain"
	c.BlobBackend = "fs"
	c.UploadsDir = "uploads"
	c.MaxUploadSize = 200 << 20
	c.PreviewMaxRows = 1000
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "uploads"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
