// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv (dotenv files) and
// github.com/caarlos0/env/v11 (struct tags). Every package that needs
// settings declares a Config struct with env tags; binaries nest those
// structs and call Load once at startup.
//
//	type Config struct {
//		ClientID   string   `env:"TWITCH_CLIENT_ID,required"`
//		StorageKey string   `env:"SESSION_STORAGE_KEY" envDefault:"@stream.data:user"`
//		Scopes     []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"openid,user:read:email"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// WithPrefix selects a prefixed profile, so STAGING_TWITCH_CLIENT_ID is read
// instead of TWITCH_CLIENT_ID.
//
// Parse failures wrap ErrParsingConfig; check with errors.Is.
package config
