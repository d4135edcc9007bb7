package session

import "log/slog"

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStateGenerator replaces the random state token source.
func WithStateGenerator(fn func() (string, error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newState = fn
		}
	}
}

// WithBroadcastBuffer sets the per-subscriber snapshot buffer size.
func WithBroadcastBuffer(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.bufferSize = size
		}
	}
}
