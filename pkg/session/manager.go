package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/streamauth/pkg/broadcast"
	"github.com/dmitrymomot/streamauth/pkg/launcher"
	"github.com/dmitrymomot/streamauth/pkg/logger"
	"github.com/dmitrymomot/streamauth/pkg/provider"
	"github.com/dmitrymomot/streamauth/pkg/statemachine"
	"github.com/dmitrymomot/streamauth/pkg/store"
)

// Session is the surface consumers depend on.
type Session interface {
	Snapshot() Snapshot
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	Subscribe(ctx context.Context) broadcast.Subscriber[Snapshot]
}

var _ Session = (*Manager)(nil)

// Manager owns the sign-in lifecycle: it restores a persisted session,
// runs the implicit-grant flow and revokes the token on sign-out. The
// provider client it was given is armed with the access token only while
// a user is signed in.
type Manager struct {
	cfg      Config
	store    store.Store
	client   *provider.Client
	launcher launcher.Launcher
	logger   *slog.Logger

	newState   func() (string, error)
	bufferSize int

	lifecycle *statemachine.Machine[Status, event]
	events    *broadcast.MemoryBroadcaster[Snapshot]
	closed    atomic.Bool

	// mu serializes transitions with the user/token they publish.
	mu    sync.Mutex
	user  *UserProfile
	token string
}

// New creates a Manager in the signed-out state. Call Restore to adopt a
// previously persisted session.
func New(cfg Config, st store.Store, client *provider.Client, l launcher.Launcher, opts ...Option) (*Manager, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if st == nil || client == nil || l == nil {
		return nil, errors.New("session: store, client and launcher are required")
	}

	m := &Manager{
		cfg:        cfg.withDefaults(),
		store:      st,
		client:     client,
		launcher:   l,
		logger:     logger.Discard(),
		newState:   generateState,
		bufferSize: 8,
	}
	m.lifecycle = m.newLifecycle()
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("session"))
	m.events = broadcast.NewMemoryBroadcaster[Snapshot](m.bufferSize)
	_ = m.events.Broadcast(context.Background(), m.snapshotLocked())

	return m, nil
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	return m.lifecycle.Current()
}

// Snapshot returns a consistent view of the session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe streams snapshots. The current snapshot is delivered first.
func (m *Manager) Subscribe(ctx context.Context) broadcast.Subscriber[Snapshot] {
	return m.events.Subscribe(ctx)
}

// AccessToken returns the active token, or "" when signed out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// HTTPClient returns the provider client's HTTP client. Requests carry the
// bearer token while a user is signed in.
func (m *Manager) HTTPClient() *http.Client {
	return m.client.HTTPClient()
}

// Close stops all subscriptions. A closed Manager refuses new sign-ins and
// restores; a sign-out is still honoured.
func (m *Manager) Close() error {
	m.closed.Store(true)
	return m.events.Close()
}

// Restore adopts the persisted session, if any. A missing record leaves the
// Manager signed out and is not an error. A malformed record is removed and
// ErrCorruptSession is returned.
func (m *Manager) Restore(ctx context.Context) error {
	if !m.lifecycle.CanFire(ctx, evRestore) {
		return m.rejection()
	}

	data, err := m.store.Get(ctx, m.cfg.StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		m.logger.DebugContext(ctx, "no persisted session")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		m.client.Disarm()
		if derr := m.store.Delete(ctx, m.cfg.StorageKey); derr != nil && !errors.Is(derr, store.ErrNotFound) {
			m.logger.WarnContext(ctx, "failed to remove corrupt session", logger.Error(derr))
		}
		m.logger.WarnContext(ctx, "persisted session is corrupt", logger.Error(err))
		return err
	}

	if err := m.transition(ctx, evRestore, func() { m.adopt(rec) }); err != nil {
		return m.busyError(err)
	}
	m.logger.InfoContext(ctx, "session restored", logger.UserID(rec.User.ID))
	return nil
}

// SignIn runs one implicit-grant round-trip. A user who cancels, dismisses
// or denies access leaves the Manager signed out and SignIn returns nil.
// Every other failure is returned and leaves no session behind.
func (m *Manager) SignIn(ctx context.Context) error {
	ctx = ContextWithAttemptID(ctx, uuid.NewString())
	if err := m.transition(ctx, evBeginSignIn, nil); err != nil {
		return m.busyError(err)
	}
	started := time.Now()

	rec, ok, err := m.authorize(ctx)
	if err != nil || !ok {
		if terr := m.transition(ctx, evAbortSignIn, nil); terr != nil {
			m.logger.ErrorContext(ctx, "failed to abort sign-in", logger.Error(terr))
		}
		if err != nil {
			m.logger.WarnContext(ctx, "sign-in failed", logger.Error(err))
		}
		return err
	}

	if err := m.transition(ctx, evCompleteSignIn, func() { m.adopt(rec) }); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "signed in",
		logger.UserID(rec.User.ID),
		logger.Duration(time.Since(started)),
	)
	return nil
}

// authorize performs the round-trip and persists the result. ok is false
// when the user backed out.
func (m *Manager) authorize(ctx context.Context) (Record, bool, error) {
	state, err := m.newState()
	if err != nil {
		return Record{}, false, errors.Join(ErrStateGeneration, err)
	}

	res := m.launcher.Launch(ctx, m.authorizationURL(state))
	if res.Type != launcher.ResultSuccess {
		m.logger.InfoContext(ctx, "sign-in not completed",
			slog.String("result", string(res.Type)),
			logger.Error(res.Err),
		)
		return Record{}, false, nil
	}
	if res.Param("error") == "access_denied" {
		m.logger.InfoContext(ctx, "user denied access")
		return Record{}, false, nil
	}

	if !stateMatches(state, res.Param("state")) {
		return Record{}, false, ErrStateMismatch
	}
	if code := res.Param("error"); code != "" {
		return Record{}, false, fmt.Errorf("%w: %s: %s", ErrAuthorizationFailed, code, res.Param("error_description"))
	}

	token := res.Param("access_token")
	if token == "" {
		return Record{}, false, ErrMissingAccessToken
	}

	profile, err := m.client.FetchProfile(ctx, token)
	if err != nil {
		return Record{}, false, errors.Join(ErrProfileFetch, err)
	}

	rec := Record{User: profile, AccessToken: token}
	data, err := EncodeRecord(rec)
	if err != nil {
		return Record{}, false, errors.Join(ErrPersistSession, err)
	}
	if err := m.store.Set(ctx, m.cfg.StorageKey, data); err != nil {
		return Record{}, false, errors.Join(ErrPersistSession, err)
	}

	return rec, true, nil
}

// SignOut revokes the token, removes the persisted record and clears the
// session. It never fails: revocation and storage errors are logged and
// the local session is cleared regardless. Calling it while signed out or
// during another transition does nothing.
func (m *Manager) SignOut(ctx context.Context) error {
	var (
		token  string
		userID int64
	)
	err := m.transition(ctx, evBeginSignOut, func() {
		token = m.token
		if m.user != nil {
			userID = m.user.ID
		}
	})
	if err != nil {
		m.logger.DebugContext(ctx, "sign-out ignored", logger.State(m.Status().String()))
		return nil
	}

	log := m.logger.With(logger.UserID(userID))

	if err := m.client.Revoke(ctx, token); err != nil {
		log.WarnContext(ctx, "token revocation failed", logger.Error(err))
	}

	// Local cleanup must happen even if the caller's context is already done.
	cleanup := context.WithoutCancel(ctx)
	if err := m.store.Delete(cleanup, m.cfg.StorageKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.ErrorContext(ctx, "failed to remove persisted session", logger.Error(err))
	}

	if err := m.transition(cleanup, evCompleteSignOut, m.clear); err != nil {
		log.ErrorContext(ctx, "failed to complete sign-out", logger.Error(err))
		return nil
	}
	log.InfoContext(ctx, "signed out")
	return nil
}

// transition fires ev and, if accepted, applies fn and publishes the new
// snapshot while still holding mu.
func (m *Manager) transition(ctx context.Context, ev event, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.lifecycle.Fire(ctx, ev); err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	_ = m.events.Broadcast(ctx, m.snapshotLocked())
	return nil
}

func (m *Manager) adopt(rec Record) {
	user := rec.User
	m.user = &user
	m.token = rec.AccessToken
	m.client.Arm(rec.AccessToken)
}

func (m *Manager) clear() {
	m.client.Disarm()
	m.user = nil
	m.token = ""
}

func (m *Manager) snapshotLocked() Snapshot {
	status := m.lifecycle.Current()
	snap := Snapshot{
		Status:       status,
		IsSigningIn:  status == StatusSigningIn,
		IsSigningOut: status == StatusSigningOut,
	}
	if m.user != nil {
		user := *m.user
		snap.User = &user
	}
	return snap
}

// rejection explains why the lifecycle refused to leave the current state.
func (m *Manager) rejection() error {
	if m.closed.Load() {
		return ErrClosed
	}
	switch m.Status() {
	case StatusSignedIn:
		return ErrAlreadySignedIn
	default:
		return ErrBusy
	}
}

func (m *Manager) busyError(err error) error {
	switch {
	case statemachine.IsTransitionRejectedError(err):
		return ErrClosed
	case statemachine.IsNoTransitionAvailableError(err):
		return m.rejection()
	default:
		return err
	}
}
