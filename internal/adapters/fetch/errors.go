package fetch

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
// The set is closed: every fetch failure maps to exactly one of these, which
// is what lets the service degrade a failed source to an empty category
// without inspecting error strings.
var (
	// ErrTimeout marks a fetch that exceeded its deadline.
	ErrTimeout = errors.New("source fetch timed out")
	// ErrUnreachable marks a transport failure or non-2xx response.
	ErrUnreachable = errors.New("source unreachable")
	// ErrMalformed marks a response body that did not decode.
	ErrMalformed = errors.New("source response malformed")
)

// KindLabel returns the metrics label for a fetch error.
func KindLabel(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
