package payoff

import "errors"

var (
	// ErrInsufficientUnderlyings is returned at construction when a worst-of
	// engine is given fewer than two underlyings or one without an initial
	// price.
	ErrInsufficientUnderlyings = errors.New("payoff: insufficient underlyings")

	// ErrInsufficientPath is returned by Calculate when the supplied path has
	// fewer observations than the schedule. The engine stays usable; the
	// caller can retry the next path.
	ErrInsufficientPath = errors.New("payoff: price path too short")

	// ErrPathCardinality is returned by a worst-of Calculate when the number
	// of supplied paths does not match the number of underlyings.
	ErrPathCardinality = errors.New("payoff: path count mismatch")
)
