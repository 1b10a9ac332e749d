package storage

import "time"

// Config holds configuration for the object storage used for exports and backups.
type Config struct {
	// Endpoint is the MinIO or S3 host. An https:// scheme enables SSL.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives hierarchy exports and id map backups.
	Bucket string `mapstructure:"bucket" default:"bulkdozer"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds connection setup, TLS and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the configured timeout, 30s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
