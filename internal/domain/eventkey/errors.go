package eventkey

import "errors"

// Sentinel kinds for event-key errors.
var (
	ErrEmptyName      = errors.New("event name produces an empty key")
	ErrUnknownSession = errors.New("unknown session type")
)
