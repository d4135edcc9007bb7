package session

import "errors"

var (
	// ErrMissingClientID indicates Config.ClientID is empty
	ErrMissingClientID = errors.New("session.missing_client_id")

	// ErrStateMismatch indicates the redirect's state parameter does not match
	// the one issued for the attempt
	ErrStateMismatch = errors.New("session.state_mismatch")

	// ErrAuthorizationFailed indicates the provider returned an error other than access_denied
	ErrAuthorizationFailed = errors.New("session.authorization_failed")

	// ErrMissingAccessToken indicates a successful redirect without an access token
	ErrMissingAccessToken = errors.New("session.missing_access_token")

	// ErrProfileFetch indicates the user profile could not be loaded with the new token
	ErrProfileFetch = errors.New("session.profile_fetch_failed")

	// ErrPersistSession indicates the session record could not be written
	ErrPersistSession = errors.New("session.persist_failed")

	// ErrCorruptSession indicates the persisted record is malformed
	ErrCorruptSession = errors.New("session.corrupt")

	// ErrAlreadySignedIn indicates SignIn or Restore was called with an active session
	ErrAlreadySignedIn = errors.New("session.already_signed_in")

	// ErrBusy indicates another sign-in or sign-out is in progress
	ErrBusy = errors.New("session.busy")

	// ErrClosed indicates the Manager was closed
	ErrClosed = errors.New("session.closed")

	// ErrStateGeneration indicates the state token could not be generated
	ErrStateGeneration = errors.New("session.state_generation_failed")
)
