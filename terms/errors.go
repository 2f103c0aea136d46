package terms

import "errors"

var (
	// ErrParameter indicates a rate or barrier value that could not be
	// parsed into a decimal fraction.
	ErrParameter = errors.New("terms: bad parameter")

	// ErrMissingParameter indicates term data with a required field absent
	// (initial price, observation dates, coupon rule). Construction-time and
	// fatal; there is nothing to retry.
	ErrMissingParameter = errors.New("terms: missing parameter")
)
