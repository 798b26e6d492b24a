package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotStarted marks an operation invoked before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrUnknownRegion marks a region code outside the candidate catalog.
	ErrUnknownRegion = errors.New("unknown region code")
	// ErrMissingCollaborator marks a Start without a fetcher or similarity provider.
	ErrMissingCollaborator = errors.New("missing required collaborator")
)
