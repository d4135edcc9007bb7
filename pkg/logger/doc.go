// Package logger builds *slog.Logger instances for streamauth binaries and
// provides attribute helpers so that every package names its log fields the
// same way.
//
// New accepts functional options (format, level, output, static attributes,
// context extractors). FromConfig maps the LOG_LEVEL, LOG_FORMAT, APP_ENV
// and APP_NAME environment settings onto those options:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	log := logger.FromConfig(cfg, logger.WithAttr(logger.Provider("twitch")))
//	log.Info("signed in", logger.UserID(profile.ID), logger.AttemptID(id))
//
// Helpers such as Error and UserID return an empty slog.Attr for nil input,
// so they can be passed unconditionally.
//
// Libraries in this module default to Discard and accept a logger via their
// WithLogger option.
package logger
