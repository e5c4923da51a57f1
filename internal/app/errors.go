package service

import "errors"

// Sentinel kinds for coordinator errors. A submission rejected with any of
// the validation errors below has written nothing; ErrStandingsUnavailable
// means the result and scores committed but the follow-up table could not be
// computed.
var (
	ErrNotStarted           = errors.New("service not started")
	ErrMissingEventID       = errors.New("missing event id")
	ErrMissingSubmitter     = errors.New("missing submitter id")
	ErrInvalidResultOrder   = errors.New("invalid result order")
	ErrStandingsUnavailable = errors.New("standings unavailable")
)
