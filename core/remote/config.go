package remote

import "time"

// Config holds configuration for the Campaign Manager API.
type Config struct {
	// BaseURL is the API root, without the user profile segment.
	BaseURL string `mapstructure:"base_url" default:"https://dfareporting.googleapis.com/dfareporting/v4"`
	// ProfileID is the user profile; when empty it is read from the Store table.
	ProfileID string `mapstructure:"profile_id" default:""`
	// AccessToken is the OAuth bearer token.
	AccessToken string `mapstructure:"access_token" default:""`
	// TimeoutSeconds bounds each HTTP call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// Retries is the number of retries for transient failures.
	Retries int `mapstructure:"retries" default:"4"`
	// RetryDelay is the first backoff.
	RetryDelay time.Duration `mapstructure:"retry_delay" default:"8s"`
	// ChunkSize is the largest id batch per list call.
	ChunkSize int `mapstructure:"chunk_size" default:"500"`
}

// RetryPolicy builds the retry policy described by the configuration.
func (c Config) RetryPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	if c.Retries >= 0 {
		p.Retries = c.Retries
	}
	if c.RetryDelay > 0 {
		p.BaseDelay = c.RetryDelay
	}
	return p
}
