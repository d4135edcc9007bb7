package session

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/streamauth/pkg/logger"
)

type attemptIDKey struct{}

// ContextWithAttemptID tags ctx with a sign-in attempt id. SignIn does this
// for every attempt so launcher and provider logs can be correlated.
func ContextWithAttemptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, attemptIDKey{}, id)
}

// AttemptIDFromContext returns the attempt id set by ContextWithAttemptID.
func AttemptIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(attemptIDKey{}).(string)
	return id, ok && id != ""
}

// LogAttemptID is a logger.ContextExtractor adding attempt_id to records
// logged with a sign-in context.
func LogAttemptID(ctx context.Context) (slog.Attr, bool) {
	id, ok := AttemptIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.AttemptID(id), true
}

var _ logger.ContextExtractor = LogAttemptID
