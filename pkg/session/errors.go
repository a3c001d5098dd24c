package session

import "errors"

var (
	// ErrNotConfigured is returned when session functionality is used
	// without a session store configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrTypeMismatch is returned by Value when the stored value has another type.
	ErrTypeMismatch = errors.New("session: type mismatch")

	// ErrClosed is returned by a store used after Close.
	ErrClosed = errors.New("session: store closed")
)
