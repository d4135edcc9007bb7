package session

// Defaults applied by New when the corresponding Config field is empty.
const (
	DefaultStorageKey  = "@stream.data:user"
	DefaultRedirectURL = "http://localhost:3000/callback"
)

// DefaultScopes is the permission set requested when Config.Scopes is empty.
var DefaultScopes = []string{"openid", "user:read:email", "user:read:follows"}

// Config holds the settings the Manager needs from its host.
type Config struct {
	// ClientID is the application id registered with the provider.
	ClientID string `env:"TWITCH_CLIENT_ID,required,notEmpty"`

	// RedirectURL must match the redirect URI registered with the provider
	// and the address the launcher listens on. Empty means DefaultRedirectURL.
	RedirectURL string `env:"OAUTH_REDIRECT_URL"`

	// StorageKey is the key the session record is persisted under.
	StorageKey string `env:"SESSION_STORAGE_KEY" envDefault:"@stream.data:user"`

	Scopes []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"openid,user:read:email,user:read:follows"`
}

func (c Config) withDefaults() Config {
	if c.RedirectURL == "" {
		c.RedirectURL = DefaultRedirectURL
	}
	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}
	if len(c.Scopes) == 0 {
		c.Scopes = append([]string(nil), DefaultScopes...)
	}
	return c
}
