package provider

import "time"

// Config holds configuration for the remote storage provider (Dropbox API v2).
type Config struct {
	// AppKey is the OAuth client id of the registered app.
	AppKey string `mapstructure:"app_key" default:""`
	// AppSecret is the OAuth client secret of the registered app.
	AppSecret string `mapstructure:"app_secret" default:""`
	// APIURL is the base URL for RPC endpoints.
	APIURL string `mapstructure:"api_url" default:"https://api.dropboxapi.com"`
	// ContentURL is the base URL for content download endpoints.
	ContentURL string `mapstructure:"content_url" default:"https://content.dropboxapi.com"`
	// AuthURL is the OAuth authorize endpoint.
	AuthURL string `mapstructure:"auth_url" default:"https://www.dropbox.com/oauth2/authorize"`
	// TokenURL is the OAuth token endpoint.
	TokenURL string `mapstructure:"token_url" default:"https://api.dropboxapi.com/oauth2/token"`
	// ShareHost is the host public share links are rebuilt against.
	ShareHost string `mapstructure:"share_host" default:"https://www.dropbox.com"`
	// Root is the watched folder in each linked account.
	Root string `mapstructure:"root" default:"/Images"`
	// TimeoutSeconds bounds a single provider call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RequestsPerSecond is the sustained outbound call rate across all users.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"10"`
	// Burst is the number of calls allowed above the sustained rate.
	Burst int `mapstructure:"burst" default:"5"`
}

// Timeout returns the per-call timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
