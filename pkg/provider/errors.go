package provider

import "errors"

var (
	// ErrNotArmed is returned by Token when no access token is set.
	ErrNotArmed = errors.New("provider: client has no access token")

	// ErrEmptyToken is returned when an operation needs a token and got "".
	ErrEmptyToken = errors.New("provider: empty access token")

	// ErrEmptyProfile is returned when the profile collection has no entries.
	ErrEmptyProfile = errors.New("provider: profile response contains no users")

	// ErrUnexpectedStatus is returned for non-2xx provider responses.
	ErrUnexpectedStatus = errors.New("provider: unexpected response status")
)
