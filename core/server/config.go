package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// An empty key disables authentication (local development only).
	ApiKey string `mapstructure:"api_key" default:""`
	// PreviewTimeoutSeconds bounds a dry-run import triggered over HTTP.
	PreviewTimeoutSeconds int `mapstructure:"preview_timeout_seconds" default:"120"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// PreviewTimeout returns the preview timeout, defaulting to two minutes.
func (c Config) PreviewTimeout() time.Duration {
	if c.PreviewTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.PreviewTimeoutSeconds) * time.Second
}
