// Package store persists opaque byte values under string keys.
//
// The Store interface is deliberately tiny (Get, Set, Delete) and knows
// nothing about what it stores. Back-ends:
//
//   - MemoryStore: process memory, for tests.
//   - FileStore: one file per key, written via temp file + rename.
//   - RedisStore: github.com/redis/go-redis/v9.
//   - MongoStore: go.mongodb.org/mongo-driver/v2, one document per key.
//
// Open picks a back-end from Config, which is loadable from the environment
// (STORE_DRIVER, STORE_DIR, REDIS_*, MONGODB_*).
//
// Get returns ErrNotFound for missing keys; Delete of a missing key
// succeeds.
package store
