package apperr

import "errors"

var (
	// ErrCycleDetected is returned when a parent chain revisits a uri.
	// The backend promises acyclic hierarchies but does not enforce them.
	ErrCycleDetected = errors.New("cycle detected in parent chain")

	// ErrNoRestrictionText is returned when a text-match sweep is invoked
	// without a restriction text to match against.
	ErrNoRestrictionText = errors.New("no restriction text provided")

	// ErrURIMismatch is returned when an update targets a uri that does not
	// match the uri inside the record being written.
	ErrURIMismatch = errors.New("record uri does not match target uri")
)
