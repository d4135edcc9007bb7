package store

import "errors"

var (
	// ErrNotFound indicates no value is stored under the key
	ErrNotFound = errors.New("store.not_found")

	// ErrEmptyKey indicates an empty key was passed
	ErrEmptyKey = errors.New("store.empty_key")

	// ErrUnknownDriver indicates Config.Driver names no known back-end
	ErrUnknownDriver = errors.New("store.unknown_driver")

	// ErrConnectionFailed indicates a remote back-end could not be reached
	ErrConnectionFailed = errors.New("store.connection_failed")
)
