package session

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/streamauth/pkg/logger"
	"github.com/dmitrymomot/streamauth/pkg/provider"
	"github.com/dmitrymomot/streamauth/pkg/statemachine"
)

// UserProfile is the provider profile bound to a session.
type UserProfile = provider.Profile

// Status is the Manager's lifecycle state.
type Status string

const (
	StatusSignedOut  Status = "signed_out"
	StatusSigningIn  Status = "signing_in"
	StatusSignedIn   Status = "signed_in"
	StatusSigningOut Status = "signing_out"
)

func (s Status) String() string { return string(s) }

type event string

const (
	evRestore         event = "restore"
	evBeginSignIn     event = "begin_sign_in"
	evCompleteSignIn  event = "complete_sign_in"
	evAbortSignIn     event = "abort_sign_in"
	evBeginSignOut    event = "begin_sign_out"
	evCompleteSignOut event = "complete_sign_out"
)

// newLifecycle builds the state graph. Entering a sign-in or a restore is
// refused once the Manager is closed, and every accepted transition is
// logged.
func (m *Manager) newLifecycle() *statemachine.Machine[Status, event] {
	open := statemachine.WithGuard[Status, event](func(context.Context, Status, event) bool {
		return !m.closed.Load()
	})
	logged := statemachine.WithAction[Status, event](m.logTransition)

	return statemachine.New[Status, event](StatusSignedOut,
		statemachine.WithTransition[Status, event](StatusSignedOut, StatusSignedIn, evRestore, open, logged),
		statemachine.WithTransition[Status, event](StatusSignedOut, StatusSigningIn, evBeginSignIn, open, logged),
		statemachine.WithTransition[Status, event](StatusSigningIn, StatusSignedIn, evCompleteSignIn, logged),
		statemachine.WithTransition[Status, event](StatusSigningIn, StatusSignedOut, evAbortSignIn, logged),
		statemachine.WithTransition[Status, event](StatusSignedIn, StatusSigningOut, evBeginSignOut, logged),
		statemachine.WithTransition[Status, event](StatusSigningOut, StatusSignedOut, evCompleteSignOut, logged),
	)
}

func (m *Manager) logTransition(ctx context.Context, from, to Status, ev event) error {
	m.logger.DebugContext(ctx, "session state changed",
		logger.Event(string(ev)),
		slog.String("from", from.String()),
		logger.State(to.String()),
	)
	return nil
}

// Snapshot is the consumer view of the session.
type Snapshot struct {
	Status       Status
	User         *UserProfile
	IsSigningIn  bool
	IsSigningOut bool
}

// IsSignedIn reports whether a user is bound to the session.
func (s Snapshot) IsSignedIn() bool {
	return s.Status == StatusSignedIn
}
