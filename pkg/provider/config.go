package provider

import (
	"time"

	"golang.org/x/oauth2/twitch"
)

// Name identifies the provider in logs.
const Name = "twitch"

// DefaultRevokeURL is the Twitch token revocation endpoint.
const DefaultRevokeURL = "https://id.twitch.tv/oauth2/revoke"

// Config holds provider endpoints and the application's client id.
type Config struct {
	ClientID    string        `env:"TWITCH_CLIENT_ID,required,notEmpty"`
	AuthURL     string        `env:"OAUTH_AUTH_URL"`
	RevokeURL   string        `env:"OAUTH_REVOKE_URL" envDefault:"https://id.twitch.tv/oauth2/revoke"`
	APIURL      string        `env:"PROVIDER_API_URL" envDefault:"https://api.twitch.tv/helix"`
	ProfilePath string        `env:"PROVIDER_PROFILE_PATH" envDefault:"/users"`
	HTTPTimeout time.Duration `env:"PROVIDER_HTTP_TIMEOUT" envDefault:"10s"`
}

// DefaultConfig returns Twitch defaults for the given client id.
func DefaultConfig(clientID string) Config {
	return Config{
		ClientID:    clientID,
		AuthURL:     twitch.Endpoint.AuthURL,
		RevokeURL:   DefaultRevokeURL,
		APIURL:      "https://api.twitch.tv/helix",
		ProfilePath: "/users",
		HTTPTimeout: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig(c.ClientID)
	if c.AuthURL == "" {
		c.AuthURL = d.AuthURL
	}
	if c.RevokeURL == "" {
		c.RevokeURL = d.RevokeURL
	}
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.ProfilePath == "" {
		c.ProfilePath = d.ProfilePath
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	return c
}
