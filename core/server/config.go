package server

import (
	"strings"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// UserHeader carries the authenticated account id set by the fronting proxy.
	UserHeader string `mapstructure:"user_header" default:"X-User-ID"`
	// PublicURL is the externally reachable base URL, used for OAuth redirects.
	PublicURL string `mapstructure:"public_url" default:"http://localhost:8080"`
	// RequestTimeoutSeconds bounds the work a single request may do.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"120"`
}

// RequestTimeout returns the per-request deadline, falling back to two
// minutes when unset.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CallbackURL returns the absolute URL of an OAuth callback path.
func (c Config) CallbackURL(path string) string {
	return strings.TrimRight(c.PublicURL, "/") + "/" + strings.TrimLeft(path, "/")
}
