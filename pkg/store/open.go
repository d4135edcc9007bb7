package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Drivers accepted by Config.Driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

// Config selects and configures a back-end.
type Config struct {
	Driver string `env:"STORE_DRIVER" envDefault:"file"`
	// Dir is used by the file driver; empty means <user config dir>/streamauth.
	Dir   string `env:"STORE_DIR"`
	Redis RedisConfig
	Mongo MongoConfig
}

// Open builds the Store named by cfg.Driver. The returned close function
// releases any connection held by the store and is never nil.
func Open(ctx context.Context, cfg Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), noop, nil

	case DriverFile, "":
		dir := cfg.Dir
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, noop, fmt.Errorf("resolve config dir: %w", err)
			}
			dir = filepath.Join(base, "streamauth")
		}
		s, err := NewFileStore(dir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case DriverRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		s := NewRedisStore(client, cfg.Redis.KeyPrefix)
		return s, s.Close, nil

	case DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, noop, err
		}
		s := NewMongoStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		return s, s.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
