package service

import "errors"

// Sentinel kinds for service operations.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidRequest = errors.New("invalid request")
)
