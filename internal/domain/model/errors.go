package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidStatus  = errors.New("invalid relationship status")
	ErrTerminalStatus = errors.New("relationship already confirmed")
)
