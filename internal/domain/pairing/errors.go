package pairing

import (
	"errors"
	"fmt"
)

// Sentinel kinds for pairing errors. ErrUnknownProvider and ErrUnknownSeeker
// both match ErrUnknownEntity under errors.Is.
var (
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrUnknownProvider = fmt.Errorf("%w: provider", ErrUnknownEntity)
	ErrUnknownSeeker   = fmt.Errorf("%w: seeker", ErrUnknownEntity)
)
