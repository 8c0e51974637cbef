package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("relationship not found")
	ErrDuplicateID = errors.New("relationship id already exists")
)
