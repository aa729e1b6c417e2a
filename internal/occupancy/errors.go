package occupancy

import "errors"

var (
	// ErrSchema marks a row that is missing a required field or carries an
	// unparsable timestamp. Policy: drop the row, keep the cycle going.
	ErrSchema = errors.New("reading row does not match any accepted schema")

	// ErrInvalidValue marks a negative or non-numeric count. Policy: drop,
	// never clamp — a clamped value would hide an upstream bug behind a
	// plausible number.
	ErrInvalidValue = errors.New("reading row has an invalid count")
)
