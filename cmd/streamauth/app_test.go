package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamauth/pkg/launcher"
	"github.com/dmitrymomot/streamauth/pkg/logger"
	"github.com/dmitrymomot/streamauth/pkg/provider"
	"github.com/dmitrymomot/streamauth/pkg/session"
	"github.com/dmitrymomot/streamauth/pkg/store"
)

// cleanEnv isolates a test from redirect and listener settings of the host.
func cleanEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TWITCH_CLIENT_ID", "client-123")
	t.Setenv("OAUTH_REDIRECT_URL", "")
	t.Setenv("LAUNCHER_LISTEN_ADDR", "")
	t.Setenv("LAUNCHER_CALLBACK_PATH", "")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORE_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
}

func TestLoadConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("OAUTH_SCOPES", "openid,user:read:email")
	t.Setenv("LOGIN_TIMEOUT", "30s")

	cfg, err := loadConfig(globalFlags{})
	require.NoError(t, err)

	assert.Equal(t, "client-123", cfg.Session.ClientID)
	assert.Equal(t, "client-123", cfg.Provider.ClientID)
	assert.Equal(t, []string{"openid", "user:read:email"}, cfg.Session.Scopes)
	assert.Equal(t, session.DefaultStorageKey, cfg.Session.StorageKey)
	assert.Equal(t, store.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.LoginTimeout)
}

func TestLoadConfigRequiresClientID(t *testing.T) {
	t.Setenv("TWITCH_CLIENT_ID", "")

	_, err := loadConfig(globalFlags{})
	assert.Error(t, err)
}

func TestLoadConfigPrefix(t *testing.T) {
	t.Setenv("STAGING_TWITCH_CLIENT_ID", "staging-client")

	cfg, err := loadConfig(globalFlags{envPrefix: "STAGING_"})
	require.NoError(t, err)
	assert.Equal(t, "staging-client", cfg.Session.ClientID)
	assert.Equal(t, "staging-client", cfg.Provider.ClientID)
}

func TestDefaultRedirectMatchesListener(t *testing.T) {
	cleanEnv(t)

	cfg, err := loadConfig(globalFlags{})
	require.NoError(t, err)

	l := launcher.NewLoopback(cfg.Launcher)
	assert.Equal(t, session.DefaultRedirectURL, l.RedirectURL())
}

func TestNewApp(t *testing.T) {
	t.Run("starts signed out", func(t *testing.T) {
		cleanEnv(t)

		a, err := newApp(context.Background(), globalFlags{})
		require.NoError(t, err)
		defer func() { _ = a.close() }()

		snap := a.manager.Snapshot()
		assert.Equal(t, session.StatusSignedOut, snap.Status)
		assert.Nil(t, snap.User)
	})

	t.Run("redirect follows the listener", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv("LAUNCHER_LISTEN_ADDR", "127.0.0.1:4567")

		a, err := newApp(context.Background(), globalFlags{})
		require.NoError(t, err)
		defer func() { _ = a.close() }()

		assert.Equal(t, "http://127.0.0.1:4567/callback", a.cfg.Session.RedirectURL)
	})

	t.Run("explicit redirect matching the listener", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv("LAUNCHER_LISTEN_ADDR", "127.0.0.1:4567")
		t.Setenv("OAUTH_REDIRECT_URL", "http://127.0.0.1:4567/callback")

		a, err := newApp(context.Background(), globalFlags{})
		require.NoError(t, err)
		defer func() { _ = a.close() }()
	})

	t.Run("explicit redirect on another port", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv("LAUNCHER_LISTEN_ADDR", "127.0.0.1:4567")
		t.Setenv("OAUTH_REDIRECT_URL", "http://localhost:3000/callback")

		_, err := newApp(context.Background(), globalFlags{})
		assert.ErrorIs(t, err, launcher.ErrRedirectMismatch)
	})
}

type unreadableStore struct {
	*store.MemoryStore
}

func (unreadableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func TestRestoreSessionSurvivesStoreFailure(t *testing.T) {
	l := launcher.Func(func(context.Context, string) launcher.Result {
		return launcher.Result{Type: launcher.ResultDismiss}
	})
	mgr, err := session.New(session.Config{ClientID: "client-123"},
		unreadableStore{store.NewMemoryStore()},
		provider.NewClient(provider.DefaultConfig("client-123")),
		l,
		session.WithLogger(logger.Discard()),
	)
	require.NoError(t, err)
	defer mgr.Close()

	restoreSession(context.Background(), mgr)

	assert.Equal(t, session.StatusSignedOut, mgr.Status())
	assert.NoError(t, mgr.SignOut(context.Background()))
}
