package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filereview/internal/flagx"
	"github.com/dmitrijs2005/filereview/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Fields
// left out of the file keep the value they had before parseJson ran.
type JsonConfig struct {
	EndpointAddr                *string         `json:"endpoint_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SessionIdleTimeout          *timex.Duration `json:"session_idle_timeout"`
	PasswordScheme              *string         `json:"password_scheme"`
	BlobBackend                 *string         `json:"blob_backend"`
	UploadsDir                  *string         `json:"uploads_dir"`
	MaxUploadSize               *int64          `json:"max_upload_size"`
	PreviewMaxRows              *int            `json:"preview_max_rows"`
	LogLevel                    *string         `json:"log_level"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the file named by -c / -config.
// Without the flag nothing is loaded. An unreadable file or invalid JSON
// panics: the server must not start on a half-read config.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.SessionIdleTimeout != nil {
		config.SessionIdleTimeout = c.SessionIdleTimeout.Duration
	}
	setString(&config.PasswordScheme, c.PasswordScheme)
	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.UploadsDir, c.UploadsDir)
	if c.MaxUploadSize != nil {
		config.MaxUploadSize = *c.MaxUploadSize
	}
	if c.PreviewMaxRows != nil {
		config.PreviewMaxRows = *c.PreviewMaxRows
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
