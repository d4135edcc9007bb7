// Package session manages a client-side OAuth2 implicit-grant session.
//
// A Manager moves between four states:
//
//	signed_out -> signing_in -> signed_in -> signing_out -> signed_out
//
// SignIn opens the provider's authorization page through a launcher.Launcher,
// checks the returned state token, loads the user's profile with the new
// access token and persists both to a store.Store. Nothing is adopted unless
// every step succeeds. Restore brings a persisted session back on startup.
// SignOut revokes the token with the provider but clears the local session
// even if revocation fails.
//
// Consumers read Snapshot or Subscribe to a stream of snapshots:
//
//	mgr, err := session.New(cfg, st, client, launcher.NewLoopback(lcfg))
//	if err != nil {
//		return err
//	}
//	defer mgr.Close()
//
//	if err := mgr.Restore(ctx); err != nil && !errors.Is(err, session.ErrCorruptSession) {
//		return err
//	}
//	if !mgr.Snapshot().IsSignedIn() {
//		if err := mgr.SignIn(ctx); err != nil {
//			return err
//		}
//	}
//
// While signed in, mgr.HTTPClient() authenticates provider API calls.
//
// Each SignIn tags its context with a fresh attempt id. Register
// LogAttemptID with logger.WithContextExtractors to see it on every record
// logged during the attempt.
package session
