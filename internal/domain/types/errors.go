package types

import "errors"

// Sentinel kinds for wire validation errors.
var (
	ErrInvalidRoster = errors.New("invalid roster")
)
