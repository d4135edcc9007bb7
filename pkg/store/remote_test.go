package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamauth/pkg/store"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := store.ConnectRedis(ctx, store.RedisConfig{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	s := store.NewRedisStore(client, "streamauth-test:")
	t.Cleanup(func() { _ = s.Close() })

	testStoreContract(t, s)
}

func TestMongoStore(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	client, err := store.ConnectMongo(ctx, store.MongoConfig{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		RetryAttempts:  1,
		RetryInterval:  time.Millisecond,
	})
	require.NoError(t, err)

	coll := client.Database("streamauth_test").Collection("sessions")
	s := store.NewMongoStore(coll)
	t.Cleanup(func() {
		_ = coll.Drop(context.Background())
		_ = s.Close()
	})

	testStoreContract(t, s)
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := store.ConnectRedis(context.Background(), store.RedisConfig{
		ConnectionURL:  "not a url",
		RetryAttempts:  1,
		ConnectTimeout: time.Second,
	})
	require.ErrorIs(t, err, store.ErrConnectionFailed)
}

func TestConnectRedis_NoWaitAfterLastAttempt(t *testing.T) {
	t.Parallel()

	start := time.Now()
	_, err := store.ConnectRedis(context.Background(), store.RedisConfig{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  1,
		RetryInterval:  time.Minute,
		ConnectTimeout: time.Minute,
	})

	require.ErrorIs(t, err, store.ErrConnectionFailed)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestConnectMongo_NoWaitAfterLastAttempt(t *testing.T) {
	t.Parallel()

	start := time.Now()
	_, err := store.ConnectMongo(context.Background(), store.MongoConfig{
		ConnectionURL:  "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=500",
		ConnectTimeout: time.Second,
		RetryAttempts:  1,
		RetryInterval:  time.Minute,
	})

	require.ErrorIs(t, err, store.ErrConnectionFailed)
	require.Less(t, time.Since(start), 10*time.Second)
}
