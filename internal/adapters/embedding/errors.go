package embedding

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEmbedFailed marks an embedding API call that did not produce vectors.
	ErrEmbedFailed = errors.New("embedding request failed")
	// ErrVectorMismatch marks a response whose vector count does not match the input.
	ErrVectorMismatch = errors.New("embedding response vector count mismatch")
)
