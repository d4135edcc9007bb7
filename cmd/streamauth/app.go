package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/streamauth/pkg/config"
	"github.com/dmitrymomot/streamauth/pkg/launcher"
	"github.com/dmitrymomot/streamauth/pkg/logger"
	"github.com/dmitrymomot/streamauth/pkg/provider"
	"github.com/dmitrymomot/streamauth/pkg/session"
	"github.com/dmitrymomot/streamauth/pkg/store"
)

type appConfig struct {
	Logger   logger.Config
	Session  session.Config
	Provider provider.Config
	Store    store.Config
	Launcher launcher.Config

	LoginTimeout time.Duration `env:"LOGIN_TIMEOUT" envDefault:"5m"`
}

type app struct {
	cfg     appConfig
	log     *slog.Logger
	manager *session.Manager
	close   func() error
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	envFiles  []string
	envPrefix string
}

func loadConfig(flags globalFlags) (appConfig, error) {
	var cfg appConfig
	var opts []config.Option
	if len(flags.envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(flags.envFiles...))
	}
	if flags.envPrefix != "" {
		opts = append(opts, config.WithPrefix(flags.envPrefix))
	}
	if err := config.Load(&cfg, opts...); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

// newApp wires the store, provider client, launcher and session manager and
// restores any persisted session.
func newApp(ctx context.Context, flags globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	log := logger.FromConfig(cfg.Logger,
		logger.WithAttr(logger.Provider(provider.Name)),
		logger.WithContextExtractors(session.LogAttemptID),
	)
	logger.SetAsDefault(log)

	l := launcher.NewLoopback(cfg.Launcher,
		launcher.WithLogger(log),
		launcher.WithOpener(openOrPrint),
	)
	if cfg.Session.RedirectURL == "" {
		cfg.Session.RedirectURL = l.RedirectURL()
	} else if err := l.CheckRedirectURL(cfg.Session.RedirectURL); err != nil {
		return nil, fmt.Errorf("OAUTH_REDIRECT_URL must match LAUNCHER_LISTEN_ADDR and LAUNCHER_CALLBACK_PATH: %w", err)
	}

	st, closeStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := provider.NewClient(cfg.Provider)
	mgr, err := session.New(cfg.Session, st, client, l, session.WithLogger(log))
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	restoreSession(ctx, mgr)

	return &app{
		cfg:     cfg,
		log:     log,
		manager: mgr,
		close: func() error {
			return errors.Join(mgr.Close(), closeStore())
		},
	}, nil
}

// restoreSession adopts the stored session. Any failure leaves the app
// signed out so logout and whoami keep working.
func restoreSession(ctx context.Context, mgr *session.Manager) {
	err := mgr.Restore(ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrCorruptSession):
		warn("Stored session was unreadable and has been removed")
	default:
		warn("Could not load the stored session: %s", err)
	}
}

// openOrPrint always prints the URL so sign-in works without a desktop browser.
func openOrPrint(ctx context.Context, authURL string) error {
	info("If your browser does not open, visit:")
	info("%s", authURL)
	if err := launcher.OpenBrowser(ctx, authURL); err != nil {
		warn("Could not open a browser: %s", err)
	}
	return nil
}

func printUser(u *session.UserProfile) {
	info("Name:   %s", u.DisplayName)
	info("ID:     %d", u.ID)
	if u.Email != "" {
		info("Email:  %s", u.Email)
	}
	if u.AvatarURL != "" {
		info("Avatar: %s", u.AvatarURL)
	}
}
